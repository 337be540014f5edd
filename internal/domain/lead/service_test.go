package lead

import (
	"context"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sorenh/crmdash/internal/domain/customer"
	"github.com/sorenh/crmdash/internal/notify"
)

type mockLeadRepo struct {
	byID      map[string]*Lead
	updated   *Lead
	updateErr error
}

func (m *mockLeadRepo) Create(_ context.Context, _ *Lead) error { return nil }

func (m *mockLeadRepo) Update(_ context.Context, l *Lead) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = l
	return nil
}

func (m *mockLeadRepo) GetByID(_ context.Context, id string) (*Lead, error) {
	l, ok := m.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *mockLeadRepo) List(_ context.Context) ([]Lead, error) { return nil, nil }

type mockCustomerRepo struct {
	created   *customer.Customer
	createErr error
}

func (m *mockCustomerRepo) Create(_ context.Context, c *customer.Customer) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.created = c
	return nil
}

func (m *mockCustomerRepo) Update(_ context.Context, _ *customer.Customer) error { return nil }

func (m *mockCustomerRepo) UpdateNotes(_ context.Context, _, _ string) error { return nil }

func (m *mockCustomerRepo) GetByID(_ context.Context, _ string) (*customer.Customer, error) {
	return nil, customer.ErrNotFound
}

func (m *mockCustomerRepo) List(_ context.Context) ([]customer.Customer, error) { return nil, nil }

func TestConvert_CreatesCustomerAndStampsLead(t *testing.T) {
	leads := &mockLeadRepo{byID: map[string]*Lead{
		"l1": {ID: "l1", Name: "Ana Petrova", Phone: "123", Status: StatusQualified},
	}}
	customers := &mockCustomerRepo{}
	svc := NewService(leads, customers, notify.Nop{})

	c, warnings, err := svc.Convert(context.Background(), "l1")
	require.NoError(t, err)
	assert.Empty(t, warnings)

	require.NotNil(t, customers.created)
	assert.Equal(t, "Ana Petrova", c.Name)
	assert.Equal(t, "123", c.Phone)

	require.NotNil(t, leads.updated)
	assert.Equal(t, StatusConverted, leads.updated.Status)
	assert.Equal(t, c.ID, leads.updated.CustomerID)
}

func TestConvert_AlreadyConverted(t *testing.T) {
	leads := &mockLeadRepo{byID: map[string]*Lead{
		"l1": {ID: "l1", Name: "Ana", Status: StatusConverted, CustomerID: "c9"},
	}}
	svc := NewService(leads, &mockCustomerRepo{}, notify.Nop{})

	_, _, err := svc.Convert(context.Background(), "l1")
	assert.ErrorIs(t, err, ErrAlreadyConverted)
}

func TestConvert_CustomerFailureIsFatal(t *testing.T) {
	leads := &mockLeadRepo{byID: map[string]*Lead{
		"l1": {ID: "l1", Name: "Ana", Status: StatusNew},
	}}
	customers := &mockCustomerRepo{createErr: errors.New("connection refused")}
	svc := NewService(leads, customers, notify.Nop{})

	_, _, err := svc.Convert(context.Background(), "l1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create customer")
	assert.Nil(t, leads.updated)
}

func TestConvert_StampFailureIsWarning(t *testing.T) {
	leads := &mockLeadRepo{
		byID:      map[string]*Lead{"l1": {ID: "l1", Name: "Ana", Status: StatusNew}},
		updateErr: errors.New("write timeout"),
	}
	customers := &mockCustomerRepo{}
	svc := NewService(leads, customers, notify.Nop{})

	c, warnings, err := svc.Convert(context.Background(), "l1")
	require.NoError(t, err)
	require.NotNil(t, c)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "not stamped")
}

func TestConvert_UnknownLead(t *testing.T) {
	svc := NewService(&mockLeadRepo{}, &mockCustomerRepo{}, notify.Nop{})
	_, _, err := svc.Convert(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}
