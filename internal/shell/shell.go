package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"

	"github.com/tuanvumaihuynh/perishable-catalog/internal/apperr"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/config"
	"github.com/tuanvumaihuynh/perishable-catalog/internal/service"
)

const (
	appName   = "Urban Harvest"
	separator = "----------------------------"
)

const menu = `
--- ` + appName + ` ---
1. Add Discounted Product
2. List Discounted Products
3. Filter Products by Maximum Price
4. List Products Near Expiry
5. Exit`

// errInputClosed is returned by prompt when the input reaches EOF.
var errInputClosed = errors.New("input closed")

// Shell is the interactive menu. It turns lines read from in into commands
// and renders their results to out.
type Shell struct {
	cfg        config.Shell
	logger     *slog.Logger
	dispatcher *Dispatcher
	in         *bufio.Scanner
	out        *printer
}

func New(cfg config.Shell, logger *slog.Logger, dispatcher *Dispatcher, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		cfg:        cfg,
		logger:     logger.With(slog.String("service", "shell")),
		dispatcher: dispatcher,
		in:         bufio.NewScanner(in),
		out:        &printer{w: out},
	}
}

// ReportLoad prints the problems found while loading the catalog.
func (s *Shell) ReportLoad(report service.LoadReport) {
	if report.Malformed {
		s.out.println("Error decoding the products file. Starting with an empty list.")
	}
	for _, skipped := range report.Skipped {
		s.out.printf("Error loading product '%s': %s\n", skipped.Name, apperr.Message(skipped.Err))
	}
}

// Run shows the menu until the user exits or the input ends.
func (s *Shell) Run(ctx context.Context) error {
	for {
		s.out.println(menu)
		choice, err := s.prompt("Choose an option: ")
		if err != nil {
			return s.stop(err)
		}

		switch choice {
		case "1":
			err = s.addProduct(ctx)
		case "2":
			err = s.dispatch(ctx, ListCommand{})
		case "3":
			err = s.filterByPrice(ctx)
		case "4":
			err = s.dispatch(ctx, NearExpiryCommand{WithinDays: s.cfg.NearExpiryDays})
		case "5":
			return s.stop(nil)
		default:
			s.out.println("Invalid option. Please try again.")
		}

		if err != nil {
			return s.stop(err)
		}
		if s.out.err != nil {
			return fmt.Errorf("write output: %w", s.out.err)
		}
	}
}

// stop prints the farewell. End of input is a normal way to leave.
func (s *Shell) stop(err error) error {
	if errors.Is(err, errInputClosed) {
		s.out.println()
		err = nil
	}
	if err != nil {
		return err
	}

	s.out.printf("Thank you for using %s!\n", appName)
	if s.out.err != nil {
		return fmt.Errorf("write output: %w", s.out.err)
	}
	return nil
}

func (s *Shell) addProduct(ctx context.Context) error {
	name, err := s.readLine("Product name: ")
	if err != nil {
		return err
	}

	var fields [3]string
	for i, label := range []string{
		"Original price: ",
		"Expiry date (YYYY-MM-DD): ",
		"Available quantity: ",
	} {
		v, err := s.prompt(label)
		if err != nil {
			return err
		}
		fields[i] = v
	}
	originalPrice, expiryDate, quantity := fields[0], fields[1], fields[2]

	for {
		choice, err := s.prompt("Apply discount by (P) Percentage or (V) Fixed value? (empty to cancel) ")
		if err != nil {
			return err
		}

		var (
			mode      DiscountMode
			label     string
			errPrefix string
		)
		switch strings.ToUpper(choice) {
		case "":
			s.out.println("Product not added.")
			return nil
		case "P":
			mode, label, errPrefix = DiscountModePercent, "Enter the discount percentage (%): ", "Error calculating discounted price"
		case "V":
			mode, label, errPrefix = DiscountModeFixed, "Enter the discounted price: ", "Error adding product"
		default:
			s.out.println("Invalid option. Choose 'P' for percentage or 'V' for fixed value.")
			continue
		}

		discount, err := s.prompt(label)
		if err != nil {
			return err
		}

		cmd, err := parseAddProduct(name, originalPrice, expiryDate, quantity, mode, discount)
		if err == nil {
			var res Result
			res, err = s.dispatcher.Dispatch(ctx, cmd)
			if err == nil {
				s.render(res)
				return nil
			}
		}

		s.logger.DebugContext(ctx, "add product failed", slog.Any("error", err))
		s.out.printf("%s: %s\n", errPrefix, apperr.Message(err))
	}
}

func (s *Shell) filterByPrice(ctx context.Context) error {
	input, err := s.prompt("Enter the maximum desired price: ")
	if err != nil {
		return err
	}

	maxPrice, err := parseFloat(input, "maxPrice")
	if err != nil || math.IsNaN(maxPrice) || math.IsInf(maxPrice, 0) {
		s.out.println("Invalid price input.")
		return nil
	}

	return s.dispatch(ctx, FilterByPriceCommand{MaxPrice: maxPrice})
}

func (s *Shell) dispatch(ctx context.Context, cmd Command) error {
	res, err := s.dispatcher.Dispatch(ctx, cmd)
	if err != nil {
		if errors.Is(err, apperr.InvalidInputErr) {
			s.out.println(apperr.Message(err))
			return nil
		}
		return err
	}

	s.render(res)
	return nil
}

func (s *Shell) render(res Result) {
	if res.Warning != "" {
		s.out.println(res.Warning)
	}
	if res.Message != "" {
		s.out.println(res.Message)
	}
	if res.Title == "" {
		return
	}

	if len(res.Products) == 0 {
		s.out.println(res.Empty)
		return
	}

	s.out.printf("\n--- %s ---\n", res.Title)
	for i, p := range res.Products {
		s.out.printf("%d. %s\n", i+1, p)
	}
	s.out.println(separator)
}

// prompt reads an answer with surrounding whitespace removed.
func (s *Shell) prompt(label string) (string, error) {
	line, err := s.readLine(label)
	return strings.TrimSpace(line), err
}

// readLine reads an answer exactly as typed.
func (s *Shell) readLine(label string) (string, error) {
	s.out.printf("%s", label)
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", errInputClosed
	}
	return s.in.Text(), nil
}

func parseAddProduct(name, originalPrice, expiryDate, quantity string, mode DiscountMode, discount string) (AddProductCommand, error) {
	discountValue, err := parseFloat(discount, "discount")
	if err != nil {
		return AddProductCommand{}, err
	}
	price, err := parseFloat(originalPrice, "originalPrice")
	if err != nil {
		return AddProductCommand{}, err
	}
	qty, err := strconv.Atoi(quantity)
	if err != nil {
		return AddProductCommand{}, apperr.InvalidInputErr.WithMsg("quantity must be a whole number").WrapParent(err)
	}

	return AddProductCommand{
		Name:          name,
		OriginalPrice: price,
		Mode:          mode,
		DiscountValue: discountValue,
		ExpiryDate:    expiryDate,
		Quantity:      qty,
	}, nil
}

func parseFloat(s, field string) (float64, error) {
	v, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, apperr.InvalidInputErr.WithMsg(field + " must be a number").WrapParent(err)
	}
	return v, nil
}

// printer remembers the first write error so call sites stay linear.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) println(args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintln(p.w, args...)
}
