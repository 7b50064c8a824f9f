// Package memory provides an in-process store implementing every repository
// interface. It backs the unit tests and the demo mode; the semantics mirror
// the postgres repositories exactly, including atomicity of checkout.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	checkoutdto "github.com/lunapos/checkout-service/internal/checkout/dto"
	creditdto "github.com/lunapos/checkout-service/internal/credit/dto"
	"github.com/lunapos/checkout-service/internal/model"
	"github.com/lunapos/checkout-service/internal/receipt"
	saledto "github.com/lunapos/checkout-service/internal/sale/dto"
	stockdto "github.com/lunapos/checkout-service/internal/stock/dto"
)

type Store struct {
	mu sync.Mutex

	products  map[string]*model.Product
	customers map[string]*model.Customer
	movements []model.StockMovement
	creditTxs []model.CreditTransaction
	sales     map[string]*model.Sale
	byReceipt map[string]string

	counter *receipt.Counter

	// AllowNegativeBalance mirrors the credit repository's config flag.
	AllowNegativeBalance bool

	failNextCommit error
}

func NewStore() *Store {
	return &Store{
		products:  make(map[string]*model.Product),
		customers: make(map[string]*model.Customer),
		sales:     make(map[string]*model.Sale),
		byReceipt: make(map[string]string),
		counter:   receipt.NewCounter(),
	}
}

// AddProduct seeds a product, generating an ID if missing.
func (s *Store) AddProduct(p model.Product) *model.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.products[p.ID] = &p
	return &p
}

// AddCustomer seeds a customer, generating an ID if missing.
func (s *Store) AddCustomer(c model.Customer) *model.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.customers[c.ID] = &c
	return &c
}

// FailNextCommit arms a fault that fires after checkout validation passes
// and before any state changes, simulating a commit failure. The checkout
// must leave no partial writes behind.
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNextCommit = err
}

// CreateSale implements checkout.Repository with the same validation order
// and effects as the postgres version. The store mutex stands in for the
// serializable transaction: no other operation can interleave.
func (s *Store) CreateSale(_ context.Context, input *checkoutdto.CheckoutInput) (*model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()

	productIDs := make([]string, 0, len(input.Cart))
	seen := make(map[string]bool, len(input.Cart))
	for _, line := range input.Cart {
		if !seen[line.ProductID] {
			seen[line.ProductID] = true
			productIDs = append(productIDs, line.ProductID)
		}
	}

	needed := make(map[string]int, len(productIDs))
	for _, line := range input.Cart {
		needed[line.ProductID] += line.Quantity
	}
	for _, id := range productIDs {
		p, ok := s.products[id]
		if !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrProductNotFound, id)
		}
		if !p.IsActive {
			return nil, fmt.Errorf("%w: %s", model.ErrProductInactive, id)
		}
		if needed[id] > p.Quantity {
			return nil, &model.InsufficientStockError{
				ProductID: id,
				Requested: needed[id],
				Available: p.Quantity,
			}
		}
	}

	var subtotal int64
	items := make([]model.SaleItem, 0, len(input.Cart))
	for i, line := range input.Cart {
		p := s.products[line.ProductID]
		gross := int64(line.Quantity) * p.PriceCents
		if line.DiscountCents > gross {
			return nil, fmt.Errorf("%w: line discount exceeds line total", model.ErrInvalidInput)
		}
		lineSubtotal := gross - line.DiscountCents
		subtotal += lineSubtotal
		items = append(items, model.SaleItem{
			ID:             uuid.New().String(),
			LineNo:         i + 1,
			ProductID:      line.ProductID,
			Quantity:       line.Quantity,
			UnitPriceCents: p.PriceCents,
			DiscountCents:  line.DiscountCents,
			SubtotalCents:  lineSubtotal,
		})
	}

	total := subtotal - input.DiscountCents
	if total < 0 {
		total = 0
	}

	// An attached customer must exist for any payment method; only credit
	// sales touch the balance.
	var customer *model.Customer
	if input.CustomerID != nil {
		c, ok := s.customers[*input.CustomerID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", model.ErrCustomerNotFound, *input.CustomerID)
		}
		if input.PaymentMethod.RequiresCreditPosting() {
			if !c.IsActive {
				return nil, fmt.Errorf("%w: %s", model.ErrCustomerInactive, c.ID)
			}
			if c.CreditLimitCents > 0 && c.CreditBalanceCents+total > c.CreditLimitCents {
				return nil, &model.CreditLimitExceededError{
					LimitCents:   c.CreditLimitCents,
					BalanceCents: c.CreditBalanceCents,
					TotalCents:   total,
				}
			}
			customer = c
		}
	}
	if !input.PaymentMethod.RequiresCreditPosting() && input.AmountPaidCents < total {
		return nil, &model.InsufficientPaymentError{
			TotalCents: total,
			PaidCents:  input.AmountPaidCents,
		}
	}

	if s.failNextCommit != nil {
		err := s.failNextCommit
		s.failNextCommit = nil
		return nil, err
	}

	saleID := uuid.New().String()
	receiptNumber := s.counter.Next(now)

	for _, item := range items {
		p := s.products[item.ProductID]
		before := p.Quantity
		p.Quantity -= item.Quantity
		p.UpdatedAt = now

		s.movements = append(s.movements, model.StockMovement{
			ID:             uuid.New().String(),
			ProductID:      item.ProductID,
			Direction:      model.DirectionOut,
			Quantity:       item.Quantity,
			Reason:         model.ReasonSale,
			QuantityBefore: before,
			QuantityAfter:  p.Quantity,
			ReferenceType:  strPtr("sale"),
			ReferenceID:    &saleID,
			ActorID:        strPtr(input.CashierID),
			CreatedAt:      now,
		})
	}

	if customer != nil {
		customer.CreditBalanceCents += total
		customer.UpdatedAt = now
		s.creditTxs = append(s.creditTxs, model.CreditTransaction{
			ID:                uuid.New().String(),
			CustomerID:        customer.ID,
			Type:              model.CreditPurchase,
			AmountCents:       total,
			BalanceAfterCents: customer.CreditBalanceCents,
			SaleID:            &saleID,
			Reference:         &receiptNumber,
			CreatedAt:         now,
		})
	}

	amountPaid := input.AmountPaidCents
	change := amountPaid - total
	if input.PaymentMethod.RequiresCreditPosting() {
		amountPaid = 0
		change = 0
	}
	if change < 0 {
		change = 0
	}

	sale := &model.Sale{
		ID:              saleID,
		ReceiptNumber:   receiptNumber,
		SubtotalCents:   subtotal,
		DiscountCents:   input.DiscountCents,
		TotalCents:      total,
		PaymentMethod:   input.PaymentMethod,
		AmountPaidCents: amountPaid,
		ChangeCents:     change,
		CustomerID:      input.CustomerID,
		CashierID:       input.CashierID,
		CreatedAt:       now,
	}
	for i := range items {
		items[i].SaleID = saleID
	}
	sale.Items = items

	s.sales[saleID] = sale
	s.byReceipt[receiptNumber] = saleID

	out := *sale
	out.Items = append([]model.SaleItem(nil), items...)
	return &out, nil
}

// GetProduct implements stock.Repository.
func (s *Store) GetProduct(_ context.Context, id string) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrProductNotFound, id)
	}
	out := *p
	return &out, nil
}

func (s *Store) PostMovement(_ context.Context, movement *model.StockMovement) (*model.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[movement.ProductID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrProductNotFound, movement.ProductID)
	}

	movement.QuantityBefore = p.Quantity
	movement.QuantityAfter = p.Quantity + movement.Delta()
	if movement.QuantityAfter < 0 {
		return nil, &model.InsufficientStockError{
			ProductID: movement.ProductID,
			Requested: movement.Quantity,
			Available: p.Quantity,
		}
	}

	p.Quantity = movement.QuantityAfter
	p.UpdatedAt = movement.CreatedAt
	s.movements = append(s.movements, *movement)

	out := *movement
	return &out, nil
}

func (s *Store) ListMovements(_ context.Context, f *stockdto.MovementFilters) ([]model.StockMovement, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]model.StockMovement, 0)
	for _, m := range s.movements {
		if f.ProductID != "" && m.ProductID != f.ProductID {
			continue
		}
		if f.Reason != "" && string(m.Reason) != f.Reason {
			continue
		}
		if f.StartDate != nil && m.CreatedAt.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && !m.CreatedAt.Before(*f.EndDate) {
			continue
		}
		matched = append(matched, m)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	return paginate(matched, f.Page, f.PageSize), total, nil
}

func (s *Store) ListLowStock(_ context.Context, page, pageSize int) ([]model.Product, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]model.Product, 0)
	for _, p := range s.products {
		if p.IsActive && p.MinStock > 0 && p.Quantity <= p.MinStock {
			matched = append(matched, *p)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Quantity != matched[j].Quantity {
			return matched[i].Quantity < matched[j].Quantity
		}
		return matched[i].Name < matched[j].Name
	})
	total := len(matched)
	return paginate(matched, page, pageSize), total, nil
}

func (s *Store) FoldQuantity(_ context.Context, productID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	folded := 0
	for i := range s.movements {
		if s.movements[i].ProductID == productID {
			folded += s.movements[i].Delta()
		}
	}
	return folded, nil
}

// GetCustomer implements credit.Repository.
func (s *Store) GetCustomer(_ context.Context, id string) (*model.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrCustomerNotFound, id)
	}
	out := *c
	return &out, nil
}

func (s *Store) PostTransaction(_ context.Context, entry *model.CreditTransaction) (*model.CreditTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers[entry.CustomerID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrCustomerNotFound, entry.CustomerID)
	}
	if !c.IsActive {
		return nil, model.ErrCustomerInactive
	}

	entry.BalanceAfterCents = c.CreditBalanceCents + entry.AmountCents
	if entry.BalanceAfterCents < 0 && !s.AllowNegativeBalance {
		return nil, model.ErrOverpayment
	}

	c.CreditBalanceCents = entry.BalanceAfterCents
	c.UpdatedAt = entry.CreatedAt
	s.creditTxs = append(s.creditTxs, *entry)

	out := *entry
	return &out, nil
}

func (s *Store) ListTransactions(_ context.Context, f *creditdto.TransactionFilters) ([]model.CreditTransaction, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]model.CreditTransaction, 0)
	for _, t := range s.creditTxs {
		if f.CustomerID != "" && t.CustomerID != f.CustomerID {
			continue
		}
		if f.Type != "" && string(t.Type) != f.Type {
			continue
		}
		if f.StartDate != nil && t.CreatedAt.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && !t.CreatedAt.Before(*f.EndDate) {
			continue
		}
		matched = append(matched, t)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	return paginate(matched, f.Page, f.PageSize), total, nil
}

func (s *Store) Summary(_ context.Context) (*creditdto.CreditSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	summary := &creditdto.CreditSummary{}
	for _, c := range s.customers {
		if c.CreditBalanceCents > 0 {
			summary.OutstandingCents += c.CreditBalanceCents
			summary.Debtors++
		}
	}
	return summary, nil
}

func (s *Store) FoldBalance(_ context.Context, customerID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var folded int64
	for i := range s.creditTxs {
		if s.creditTxs[i].CustomerID == customerID {
			folded += s.creditTxs[i].AmountCents
		}
	}
	return folded, nil
}

// GetByReceipt implements sale.Repository.
func (s *Store) GetByReceipt(_ context.Context, receiptNumber string) (*model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byReceipt[receiptNumber]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrSaleNotFound, receiptNumber)
	}
	sale := s.sales[id]
	out := *sale
	out.Items = append([]model.SaleItem(nil), sale.Items...)
	return &out, nil
}

func (s *Store) List(_ context.Context, f *saledto.SaleFilters) ([]model.Sale, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]model.Sale, 0)
	for _, sl := range s.sales {
		if f.CustomerID != "" && (sl.CustomerID == nil || *sl.CustomerID != f.CustomerID) {
			continue
		}
		if f.PaymentMethod != "" && string(sl.PaymentMethod) != f.PaymentMethod {
			continue
		}
		if f.CashierID != "" && sl.CashierID != f.CashierID {
			continue
		}
		if f.StartDate != nil && sl.CreatedAt.Before(*f.StartDate) {
			continue
		}
		if f.EndDate != nil && !sl.CreatedAt.Before(*f.EndDate) {
			continue
		}
		header := *sl
		header.Items = nil
		matched = append(matched, header)
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})
	total := len(matched)
	return paginate(matched, f.Page, f.PageSize), total, nil
}

func paginate[T any](items []T, page, pageSize int) []T {
	if pageSize <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func strPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
