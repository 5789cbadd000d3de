package domain

// Items above the minimum but at most 1.5 times the minimum are Low.
// Expressed as a ratio of integers to keep the comparison exact.
const (
	lowStockNumerator   = 3
	lowStockDenominator = 2
)

// ClassifyStock maps an on-hand quantity and its minimum to a stock level.
//
//	quantity <= minimum          -> Critical
//	quantity <= 1.5 * minimum    -> Low
//	otherwise                    -> Normal
func ClassifyStock(quantity, minimum int) StockLevel {
	switch {
	case quantity <= minimum:
		return StockCritical
	case quantity*lowStockDenominator <= minimum*lowStockNumerator:
		return StockLow
	default:
		return StockNormal
	}
}
