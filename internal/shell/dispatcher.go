package shell

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/tuanvumaihuynh/perishable-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/model"
	"github.com/tuanvumaihuynh/perishable-catalog/pkg/validator"
)

// Catalog is the part of service.Catalog the dispatcher drives.
type Catalog interface {
	Add(ctx context.Context, p model.Product) error
	ListAll() []model.Product
	FilterByMaxPrice(maxPrice float64) []model.Product
	FilterNearExpiry(withinDays int) []model.Product
}

// DiscountMode tells how AddProductCommand.DiscountValue is interpreted.
type DiscountMode string

const (
	// DiscountModePercent: DiscountValue is a percentage off the original price.
	DiscountModePercent DiscountMode = "percent"
	// DiscountModeFixed: DiscountValue is the discounted price itself.
	DiscountModeFixed DiscountMode = "fixed"
)

func (m DiscountMode) Validate() error {
	switch m {
	case DiscountModePercent, DiscountModeFixed:
		return nil
	default:
		return fmt.Errorf("unknown discount mode: %q", string(m))
	}
}

type Command interface {
	isCommand()
}

type AddProductCommand struct {
	Name          string       `json:"name"`
	OriginalPrice float64      `json:"originalPrice"`
	Mode          DiscountMode `json:"mode" validate:"enum"`
	DiscountValue float64      `json:"discountValue" validate:"finite"`
	ExpiryDate    string       `json:"expiryDate"`
	Quantity      int          `json:"quantity"`
}

type ListCommand struct{}

type FilterByPriceCommand struct {
	MaxPrice float64 `json:"maxPrice" validate:"finite"`
}

type NearExpiryCommand struct {
	WithinDays int `json:"withinDays" validate:"gte=0"`
}

func (AddProductCommand) isCommand()    {}
func (ListCommand) isCommand()          {}
func (FilterByPriceCommand) isCommand() {}
func (NearExpiryCommand) isCommand()    {}

// Result is the structured outcome of a command, rendered by the shell.
type Result struct {
	// Message is a one-line outcome such as a confirmation.
	Message string
	// Warning is set when the command succeeded only partially.
	Warning string

	// Listing results.
	Title    string
	Products []model.Product
	// Empty is shown instead of Title when Products is empty.
	Empty string
}

// Dispatcher executes commands against a Catalog.
type Dispatcher struct {
	logger    *slog.Logger
	catalog   Catalog
	validator validator.Validator
}

func NewDispatcher(logger *slog.Logger, catalog Catalog, v validator.Validator) *Dispatcher {
	return &Dispatcher{
		logger:    logger.With(slog.String("service", "dispatcher")),
		catalog:   catalog,
		validator: v,
	}
}

func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	if err := d.validator.Validate(cmd); err != nil {
		if msgs := validator.Messages(err); len(msgs) > 0 {
			return Result{}, apperr.InvalidInputErr.WithMsg(msgs[0])
		}
		return Result{}, fmt.Errorf("validate command: %w", err)
	}

	switch cmd := cmd.(type) {
	case AddProductCommand:
		return d.addProduct(ctx, cmd)
	case ListCommand:
		return Result{
			Title:    "Discounted Products",
			Products: d.catalog.ListAll(),
			Empty:    "No discounted products available at the moment.",
		}, nil
	case FilterByPriceCommand:
		return Result{
			Title:    fmt.Sprintf("Products priced up to $%.2f", cmd.MaxPrice),
			Products: d.catalog.FilterByMaxPrice(cmd.MaxPrice),
			Empty:    fmt.Sprintf("No products found priced up to $%.2f.", cmd.MaxPrice),
		}, nil
	case NearExpiryCommand:
		return Result{
			Title:    fmt.Sprintf("Products Near Expiry (within %d days)", cmd.WithinDays),
			Products: d.catalog.FilterNearExpiry(cmd.WithinDays),
			Empty:    fmt.Sprintf("No products near expiry in the next %d days.", cmd.WithinDays),
		}, nil
	default:
		return Result{}, apperr.InternalErr.WithMsg(fmt.Sprintf("unsupported command %T", cmd))
	}
}

func (d *Dispatcher) addProduct(ctx context.Context, cmd AddProductCommand) (Result, error) {
	discountPrice := cmd.DiscountValue
	if cmd.Mode == DiscountModePercent {
		discountPrice = model.DiscountedPrice(cmd.OriginalPrice, cmd.DiscountValue)
	}

	product, err := model.NewProduct(model.ProductRecord{
		Name:          cmd.Name,
		OriginalPrice: cmd.OriginalPrice,
		DiscountPrice: discountPrice,
		ExpiryDate:    cmd.ExpiryDate,
		Quantity:      cmd.Quantity,
	})
	if err != nil {
		d.logger.DebugContext(ctx, "product rejected", slog.Any("error", err))
		return Result{}, fmt.Errorf("new product: %w", err)
	}

	res := Result{Message: fmt.Sprintf("Product '%s' added successfully!", product.Name())}
	if err := d.catalog.Add(ctx, product); err != nil {
		if !errors.Is(err, apperr.SaveErr) {
			return Result{}, fmt.Errorf("catalog add: %w", err)
		}
		res.Warning = "Error saving products."
	}

	return res, nil
}
