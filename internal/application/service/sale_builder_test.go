package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sangkips/pos-console/internal/domain/entity"
	"github.com/sangkips/pos-console/internal/domain/enum"
	"github.com/sangkips/pos-console/pkg/apperror"
	"github.com/sangkips/pos-console/pkg/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	soap  = entity.Product{Code: "7750001", Name: "Jabón", Category: "Limpieza", Price: 2.50, Stock: 10}
	bread = entity.Product{Code: "7750002", Name: "Pan", Category: "Panadería", Price: 1.25, Stock: 5}
)

type builderFixture struct {
	builder   *SaleBuilder
	products  *fakeProducts
	sales     *fakeSales
	customers *fakeCustomers
	receipts  *fakeReceipts
}

func newBuilderFixture(saleIDs ...string) *builderFixture {
	f := &builderFixture{
		products:  newFakeProducts(soap, bread),
		sales:     newFakeSales(saleIDs...),
		customers: &fakeCustomers{known: map[string]entity.Customer{}},
		receipts:  &fakeReceipts{id: "N1", doc: []byte("%PDF-1.4")},
	}
	f.builder = NewSaleBuilder(f.products, f.sales, f.customers, f.receipts, logging.Discard())
	return f
}

func fillCustomer(t *testing.T, b *SaleBuilder) {
	t.Helper()
	for field, value := range map[string]string{
		entity.FieldName:       "María Pérez",
		entity.FieldNationalID: "0102030405",
		entity.FieldPhone:      "0991234567",
		entity.FieldAddress:    "Av. Loja 123",
	} {
		_, err := b.SetCustomerField(field, value)
		require.NoError(t, err)
	}
}

func TestCheckoutScenario(t *testing.T) {
	f := newBuilderFixture("S100")
	ctx := context.Background()

	product, err := f.builder.LookupProduct(ctx, " 7750001 ")
	require.NoError(t, err)
	assert.Equal(t, "Jabón", product.Name)
	assert.Empty(t, f.builder.State().Lines, "a lookup does not touch the sale")

	st, err := f.builder.AddLookedUp(4)
	require.NoError(t, err)
	require.Len(t, st.Lines, 1)
	assert.Equal(t, "10.00", st.Lines[0].LineTotal.StringFixed(2))
	assert.Equal(t, "10.00", st.GrandTotal.StringFixed(2))
	assert.Nil(t, st.Lookup)
	assert.Equal(t, enum.PhaseBuilding, st.Phase)

	st, err = f.builder.AddLine(bread, 2)
	require.NoError(t, err)
	assert.Equal(t, "2.50", st.Lines[1].LineTotal.StringFixed(2))
	assert.Equal(t, "12.50", st.GrandTotal.StringFixed(2))

	sale, err := f.builder.Finalize(ctx)
	require.NoError(t, err)
	assert.Equal(t, "S100", sale.ID)
	assert.Equal(t, "12.50", sale.Total.StringFixed(2))
	assert.Len(t, sale.Lines, 2)
	assert.Equal(t, 12.5, f.sales.total)

	st = f.builder.State()
	assert.Equal(t, enum.PhaseSubmitted, st.Phase)
	assert.Empty(t, st.Lines)
	assert.Equal(t, "0.00", st.GrandTotal.StringFixed(2))
	require.NotNil(t, st.LastSale)
	assert.Equal(t, "S100", st.LastSale.ID)

	st, err = f.builder.DeclineReceipt()
	require.NoError(t, err)
	assert.Equal(t, enum.PhaseEmpty, st.Phase)
	assert.Equal(t, 0, f.receipts.creates)
}

func TestFinalizeEmptySaleMakesNoCall(t *testing.T) {
	f := newBuilderFixture()

	_, err := f.builder.Finalize(context.Background())
	assert.ErrorIs(t, err, apperror.ErrEmptySale)
	assert.Equal(t, 0, f.sales.creates)
}

func TestAddLineMergesSameCode(t *testing.T) {
	f := newBuilderFixture()
	x1 := entity.Product{Code: "X1", Name: "Arroz", Price: 10, Stock: 10}

	_, err := f.builder.AddLine(x1, 2)
	require.NoError(t, err)
	st, err := f.builder.AddLine(x1, 3)
	require.NoError(t, err)

	require.Len(t, st.Lines, 1)
	assert.Equal(t, 5, st.Lines[0].Quantity)
	assert.Equal(t, "50.00", st.Lines[0].LineTotal.StringFixed(2))
}

func TestAddLineRejectsInsufficientStock(t *testing.T) {
	f := newBuilderFixture()
	low := entity.Product{Code: "L1", Name: "Leche", Price: 1, Stock: 3}

	st, err := f.builder.AddLine(low, 5)
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Contains(t, err.Error(), "Insufficient stock")
	assert.Empty(t, st.Lines)
	assert.Equal(t, enum.PhaseEmpty, st.Phase)
}

func TestRemoveLastLineEmptiesSale(t *testing.T) {
	f := newBuilderFixture()
	_, err := f.builder.AddLine(soap, 1)
	require.NoError(t, err)

	_, err = f.builder.RemoveLine(3)
	require.Error(t, err)

	st, err := f.builder.RemoveLine(0)
	require.NoError(t, err)
	assert.Empty(t, st.Lines)
	assert.Equal(t, enum.PhaseEmpty, st.Phase)
}

func TestFinalizeFailureKeepsSale(t *testing.T) {
	f := newBuilderFixture()
	f.sales.err = apperror.NewTransportError(errors.New("connection refused"))

	_, err := f.builder.AddLine(soap, 2)
	require.NoError(t, err)

	_, err = f.builder.Finalize(context.Background())
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindTransport))

	st := f.builder.State()
	assert.Equal(t, enum.PhaseBuilding, st.Phase)
	require.Len(t, st.Lines, 1)
	assert.Equal(t, "5.00", st.GrandTotal.StringFixed(2))
	assert.False(t, st.Submitting)
	assert.Nil(t, st.LastSale)
}

func TestConcurrentFinalizeIsRejected(t *testing.T) {
	f := newBuilderFixture("S1")
	g := newGate()
	f.sales.gate = g

	_, err := f.builder.AddLine(soap, 1)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.builder.Finalize(context.Background())
		done <- err
	}()
	<-g.started

	assert.True(t, f.builder.State().Submitting)
	_, err = f.builder.Finalize(context.Background())
	assert.ErrorIs(t, err, apperror.ErrSubmitInFlight)
	_, err = f.builder.AddLine(bread, 1)
	assert.ErrorIs(t, err, apperror.ErrSubmitInFlight)

	close(g.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, f.sales.creates)
	assert.Len(t, f.sales.lines, 1)
}

func TestLateLookupIsDiscarded(t *testing.T) {
	f := newBuilderFixture()
	g := newGate()
	f.products.gate = g

	done := make(chan error, 1)
	go func() {
		_, err := f.builder.LookupProduct(context.Background(), soap.Code)
		done <- err
	}()
	<-g.started

	f.builder.DismissLookup()
	close(g.release)

	assert.ErrorIs(t, <-done, apperror.ErrLookupDiscarded)
	assert.Nil(t, f.builder.State().Lookup)

	_, err := f.builder.AddLookedUp(1)
	assert.Error(t, err)
}

func TestLookupUnknownProduct(t *testing.T) {
	f := newBuilderFixture()

	_, err := f.builder.LookupProduct(context.Background(), "nope")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))

	_, err = f.builder.LookupProduct(context.Background(), "  ")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Equal(t, 1, f.products.lookups)
}

func TestReceiptPromptBlocksLineChanges(t *testing.T) {
	f := newBuilderFixture("S7")
	_, err := f.builder.AddLine(soap, 1)
	require.NoError(t, err)
	_, err = f.builder.Finalize(context.Background())
	require.NoError(t, err)

	_, err = f.builder.AddLine(bread, 1)
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))

	_, err = f.builder.SetCustomerField(entity.FieldName, "x")
	assert.Error(t, err, "the form is closed until the operator opts in")
}

func TestCreateReceipt(t *testing.T) {
	f := newBuilderFixture("S9")
	ctx := context.Background()
	_, err := f.builder.AddLine(soap, 3)
	require.NoError(t, err)
	_, err = f.builder.Finalize(ctx)
	require.NoError(t, err)

	st, err := f.builder.OptInReceipt()
	require.NoError(t, err)
	assert.Equal(t, enum.PhaseReceiptPending, st.Phase)
	require.NotNil(t, st.CustomerForm)

	_, err = f.builder.CreateReceipt(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "complete all fields")
	assert.Equal(t, 0, f.receipts.creates)

	fillCustomer(t, f.builder)
	receipt, err := f.builder.CreateReceipt(ctx)
	require.NoError(t, err)
	assert.Equal(t, "N1", receipt.ID)
	assert.Equal(t, "NotaVenta_N1.pdf", receipt.FileName)
	assert.Equal(t, []byte("%PDF-1.4"), receipt.Document)
	assert.Equal(t, "S9", f.receipts.saleID)
	assert.Equal(t, 7.5, f.receipts.total)
	assert.Equal(t, "0102030405", f.receipts.customer.NationalID)

	st = f.builder.State()
	assert.Equal(t, enum.PhaseReceiptCreated, st.Phase)
	assert.Nil(t, st.CustomerForm)
	require.NotNil(t, st.Receipt)

	st, err = f.builder.AddLine(bread, 1)
	require.NoError(t, err)
	assert.Equal(t, enum.PhaseBuilding, st.Phase)
	assert.Nil(t, st.Receipt)
}

func TestReceiptDocumentFailureKeepsReceipt(t *testing.T) {
	f := newBuilderFixture("S9")
	f.receipts.docErr = apperror.NewTransportError(errors.New("timeout"))
	ctx := context.Background()

	_, err := f.builder.AddLine(soap, 1)
	require.NoError(t, err)
	_, err = f.builder.Finalize(ctx)
	require.NoError(t, err)
	_, err = f.builder.OptInReceipt()
	require.NoError(t, err)
	fillCustomer(t, f.builder)

	receipt, err := f.builder.CreateReceipt(ctx)
	require.NoError(t, err)
	assert.Nil(t, receipt.Document)
	assert.Equal(t, enum.PhaseReceiptCreated, f.builder.State().Phase)

	f.receipts.docErr = nil
	doc, name, err := f.builder.ReceiptDocument(ctx, receipt.ID)
	require.NoError(t, err)
	assert.Equal(t, "NotaVenta_N1.pdf", name)
	assert.Equal(t, []byte("%PDF-1.4"), doc)
	assert.Equal(t, 1, f.receipts.creates)
}

func TestReceiptCreationFailureKeepsForm(t *testing.T) {
	f := newBuilderFixture("S9")
	f.receipts.err = apperror.NewServerError(422, "Cliente inválido", "")
	ctx := context.Background()

	_, err := f.builder.AddLine(soap, 1)
	require.NoError(t, err)
	_, err = f.builder.Finalize(ctx)
	require.NoError(t, err)
	_, err = f.builder.OptInReceipt()
	require.NoError(t, err)
	fillCustomer(t, f.builder)

	_, err = f.builder.CreateReceipt(ctx)
	require.Error(t, err)
	assert.Equal(t, "Cliente inválido", err.Error())

	st := f.builder.State()
	assert.Equal(t, enum.PhaseReceiptPending, st.Phase)
	assert.Equal(t, "María Pérez", st.CustomerForm.Customer.Name)
}

func TestLookupCustomerFillsForm(t *testing.T) {
	f := newBuilderFixture("S9")
	f.customers.known["0102030405"] = entity.Customer{
		Name: "María Pérez", NationalID: "0102030405", Phone: "0991234567", Address: "Av. Loja 123",
	}
	ctx := context.Background()

	_, err := f.builder.AddLine(soap, 1)
	require.NoError(t, err)
	_, err = f.builder.Finalize(ctx)
	require.NoError(t, err)
	_, err = f.builder.OptInReceipt()
	require.NoError(t, err)

	_, err = f.builder.LookupCustomer(ctx)
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
	assert.Equal(t, 0, f.customers.calls)

	_, err = f.builder.SetCustomerField(entity.FieldNationalID, "0102030405")
	require.NoError(t, err)
	customer, err := f.builder.LookupCustomer(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Av. Loja 123", customer.Address)
	assert.Equal(t, "María Pérez", f.builder.State().CustomerForm.Customer.Name)

	_, err = f.builder.SetCustomerField(entity.FieldNationalID, "0999999999")
	require.NoError(t, err)
	_, err = f.builder.LookupCustomer(ctx)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestResetDropsCheckout(t *testing.T) {
	f := newBuilderFixture("S1")
	_, err := f.builder.AddLine(soap, 1)
	require.NoError(t, err)
	_, err = f.builder.Finalize(context.Background())
	require.NoError(t, err)

	f.builder.Reset()
	st := f.builder.State()
	assert.Equal(t, enum.PhaseEmpty, st.Phase)
	assert.Nil(t, st.LastSale)
	_, ok := f.builder.LastSale()
	assert.False(t, ok)
}

func TestLateFinalizeAfterResetIsDropped(t *testing.T) {
	f := newBuilderFixture("S1")
	g := newGate()
	f.sales.gate = g

	_, err := f.builder.AddLine(soap, 1)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() {
		_, err := f.builder.Finalize(context.Background())
		done <- err
	}()
	<-g.started

	f.builder.Reset()
	close(g.release)

	assert.ErrorIs(t, <-done, apperror.ErrCheckoutReset)
	st := f.builder.State()
	assert.Equal(t, enum.PhaseEmpty, st.Phase)
	assert.Nil(t, st.LastSale)
	assert.False(t, st.Submitting)
	assert.Empty(t, st.Lines)
	_, ok := f.builder.LastSale()
	assert.False(t, ok)
}

func TestLateReceiptAfterResetIsDropped(t *testing.T) {
	f := newBuilderFixture("S9")
	ctx := context.Background()
	_, err := f.builder.AddLine(soap, 1)
	require.NoError(t, err)
	_, err = f.builder.Finalize(ctx)
	require.NoError(t, err)
	_, err = f.builder.OptInReceipt()
	require.NoError(t, err)
	fillCustomer(t, f.builder)

	g := newGate()
	f.receipts.gate = g
	done := make(chan error, 1)
	go func() {
		_, err := f.builder.CreateReceipt(ctx)
		done <- err
	}()
	<-g.started

	f.builder.Reset()
	close(g.release)

	assert.ErrorIs(t, <-done, apperror.ErrCheckoutReset)
	st := f.builder.State()
	assert.Equal(t, enum.PhaseEmpty, st.Phase)
	assert.Nil(t, st.Receipt)
	assert.Nil(t, st.LastSale)
}

func TestCustomerFormLockedWhileReceiptInFlight(t *testing.T) {
	f := newBuilderFixture("S9")
	ctx := context.Background()
	_, err := f.builder.AddLine(soap, 1)
	require.NoError(t, err)
	_, err = f.builder.Finalize(ctx)
	require.NoError(t, err)
	_, err = f.builder.OptInReceipt()
	require.NoError(t, err)
	fillCustomer(t, f.builder)

	g := newGate()
	f.receipts.gate = g
	done := make(chan error, 1)
	go func() {
		_, err := f.builder.CreateReceipt(ctx)
		done <- err
	}()
	<-g.started

	st, err := f.builder.SetCustomerField(entity.FieldName, "Otro Nombre")
	assert.ErrorIs(t, err, errReceiptInFlight)
	assert.Equal(t, "María Pérez", st.CustomerForm.Customer.Name)
	_, err = f.builder.BlurNationalID()
	assert.ErrorIs(t, err, errReceiptInFlight)

	close(g.release)
	require.NoError(t, <-done)
	assert.Equal(t, "María Pérez", f.receipts.customer.Name)
	assert.Equal(t, enum.PhaseReceiptCreated, f.builder.State().Phase)
}
