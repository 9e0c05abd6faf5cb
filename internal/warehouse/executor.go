package warehouse

import (
	"context"
	"fmt"

	"github.com/bionicpro/device-usage-reports/internal/config"
)

// StatementExecutor runs one statement against the analytical store. The
// publisher only needs this capability; the wire protocol behind it is a
// configuration choice.
type StatementExecutor interface {
	Execute(ctx context.Context, statement string) error
}

// NewExecutor selects the native-protocol or HTTP-interface implementation
// from configuration.
func NewExecutor() (StatementExecutor, error) {
	switch driver := config.WarehouseDriver(); driver {
	case "native":
		return NewNativeExecutor(config.WarehouseAddr(), config.WarehouseDatabase(), config.WarehouseUser(), config.WarehousePassword())
	case "http":
		return NewHTTPExecutor(config.WarehouseHTTPURL(), config.WarehouseUser(), config.WarehousePassword()), nil
	default:
		return nil, fmt.Errorf("warehouse: unknown driver %q (want native or http)", driver)
	}
}
