// Package spreadsheet exports valuation results as an Excel workbook.
package spreadsheet

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"vc-valuation/internal/valuation"
)

const (
	sheetProjections   = "Projections"
	sheetInvestorFlows = "Investor Flows"
	sheetScenarios     = "Scenarios"
	sheetSensitivity   = "Sensitivity"
)

// Build assembles the workbook for the given valuation results. The caller
// owns the returned file and must Close it.
func Build(results []valuation.Valuation) (*excelize.File, error) {
	f := excelize.NewFile()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"DDEBF7"}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeScenarios(f, headerStyle, results); err != nil {
		return nil, err
	}
	if err := writeProjections(f, headerStyle, results); err != nil {
		return nil, err
	}
	if err := writeInvestorFlows(f, headerStyle, results); err != nil {
		return nil, err
	}
	if err := writeSensitivity(f, headerStyle, results); err != nil {
		return nil, err
	}

	// Replace the default sheet with the scenario overview.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(sheetScenarios)
	if err != nil {
		return nil, fmt.Errorf("failed to locate scenario sheet: %w", err)
	}
	f.SetActiveSheet(index)

	return f, nil
}

// Write streams the workbook to the given writer.
func Write(w io.Writer, results []valuation.Valuation) error {
	f, err := Build(results)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Save writes the workbook to the given path.
func Save(path string, results []valuation.Valuation) error {
	f, err := Build(results)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook to %s: %w", path, err)
	}
	return nil
}

func writeScenarios(f *excelize.File, headerStyle int, results []valuation.Valuation) error {
	header := []interface{}{"Scenario", "Currency", "Enterprise Value", "Equity Value", "Present Value",
		"Investment", "Exit Proceeds", "IRR", "Cash Multiple"}
	rows := make([][]interface{}, 0, len(results))
	for _, result := range results {
		rows = append(rows, []interface{}{
			result.Scenario,
			result.Currency,
			result.Metrics.EnterpriseValue,
			result.Metrics.EquityValue,
			result.Metrics.PresentValue,
			result.Metrics.InvestmentAmount,
			result.Metrics.ExitProceeds,
			result.Metrics.InvestorIRR,
			result.Metrics.CashOnCash,
		})
	}
	return writeSheet(f, sheetScenarios, headerStyle, header, rows)
}

func writeProjections(f *excelize.File, headerStyle int, results []valuation.Valuation) error {
	header := []interface{}{"Scenario", "Year", "Cash Flow Date", "Forecast Year", "Revenue",
		"Enterprise Value", "Equity Value", "Discount Factor", "Present Value"}
	var rows [][]interface{}
	for _, result := range results {
		for _, row := range result.Projections {
			rows = append(rows, []interface{}{
				result.Scenario,
				row.CalendarYear,
				row.CashFlowDate,
				row.ForecastYear,
				row.Revenue,
				row.EnterpriseValue,
				row.EquityValue,
				row.DiscountFactor,
				row.PresentValue,
			})
		}
	}
	return writeSheet(f, sheetProjections, headerStyle, header, rows)
}

func writeInvestorFlows(f *excelize.File, headerStyle int, results []valuation.Valuation) error {
	header := []interface{}{"Scenario", "Year", "Investment", "Exit Proceeds", "Net Cash Flow", "Equity Stake"}
	var rows [][]interface{}
	for _, result := range results {
		for _, row := range result.InvestorFlows {
			rows = append(rows, []interface{}{
				result.Scenario,
				row.CalendarYear,
				row.Investment,
				row.ExitProceeds,
				row.NetCashFlow,
				row.EquityStake,
			})
		}
	}
	return writeSheet(f, sheetInvestorFlows, headerStyle, header, rows)
}

func writeSensitivity(f *excelize.File, headerStyle int, results []valuation.Valuation) error {
	header := []interface{}{"Scenario", "Discount Rate", "IRR"}
	var rows [][]interface{}
	for _, result := range results {
		for _, point := range result.Sensitivity {
			rows = append(rows, []interface{}{result.Scenario, point.DiscountRate, point.IRR})
		}
	}
	return writeSheet(f, sheetSensitivity, headerStyle, header, rows)
}

func writeSheet(f *excelize.File, name string, headerStyle int, header []interface{}, rows [][]interface{}) error {
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", name, err)
	}

	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header of sheet %s: %w", name, err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return fmt.Errorf("failed to resolve header range of sheet %s: %w", name, err)
	}
	if err := f.SetCellStyle(name, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header of sheet %s: %w", name, err)
	}

	for i, row := range rows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %s: %w", i+2, name, err)
		}
	}

	return nil
}
