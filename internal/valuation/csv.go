package valuation

import (
	"encoding/csv"
	"os"
	"strconv"
)

// WriteProfileCSV writes a decision profile, one row per period.
func WriteProfileCSV(path string, profile []ProfileRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{
		"period",
		"price",
		"action",
		"volume",
		"cmdty_consumed",
		"inventory_before",
		"inventory_after",
		"npv",
		"cum_npv",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range profile {
		row := []string{
			r.Period.String(),
			fmtFloat(r.Price),
			string(r.Action),
			fmtFloat(r.Volume),
			fmtFloat(r.CmdtyConsumed),
			fmtFloat(r.InventoryBefore),
			fmtFloat(r.InventoryAfter),
			fmtFloat(r.NPV),
			fmtFloat(r.CumNPV),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
