// internal/domain/pos/audit.go
package pos

import (
	"github.com/sirupsen/logrus"
	"github.com/your-org/pos-backend/internal/domain/cart"
)

// AuditListener logs every committed cart change
func AuditListener(logger logrus.FieldLogger) cart.Listener {
	return func(event cart.Event) {
		fields := logrus.Fields{
			"event": string(event.Kind),
		}
		if event.Line != nil {
			fields["product_id"] = event.ProductID
			fields["quantity"] = event.Line.Quantity.String()
			fields["price"] = event.Line.Price.String()
			fields["line_total"] = event.Line.Total.String()
			if event.Line.UnitID != nil {
				fields["unit_id"] = *event.Line.UnitID
			}
			if event.Line.SelectedPackageID != nil {
				fields["package_id"] = *event.Line.SelectedPackageID
			}
		}
		logger.WithFields(fields).Info("Cart changed")
	}
}
