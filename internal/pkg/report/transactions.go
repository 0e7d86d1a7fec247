// internal/pkg/report/transactions.go
package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
	"github.com/your-org/pos-backend/internal/domain/transaction"
)

const transactionsSheet = "Transactions"

var transactionHeadings = []string{"Number", "Date", "Mode", "Cashier", "Lines", "Items", "Total"}

// TransactionsWorkbook lays transactions out one per row
func TransactionsWorkbook(txns []transaction.Transaction) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", transactionsSheet); err != nil {
		return nil, err
	}

	for i, h := range transactionHeadings {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(transactionsSheet, cell, h); err != nil {
			return nil, err
		}
	}

	for i, txn := range txns {
		row := i + 2
		values := []interface{}{
			txn.Number,
			txn.CreatedAt.Format("2006-01-02 15:04:05"),
			txn.Mode,
			txn.CashierID,
			txn.LineCount,
			txn.ItemCount.InexactFloat64(),
			txn.Total.InexactFloat64(),
		}
		if err := f.SetSheetRow(transactionsSheet, fmt.Sprintf("A%d", row), &values); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// WriteTransactions streams the transactions workbook as xlsx
func WriteTransactions(w io.Writer, txns []transaction.Transaction) error {
	f, err := TransactionsWorkbook(txns)
	if err != nil {
		return fmt.Errorf("failed to build workbook: %w", err)
	}
	defer f.Close()

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
