package company

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepo struct{ company *Company }

func (m *mockRepo) Create(_ context.Context, c *Company) error {
	m.company = c
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id string) (*Company, error) {
	if m.company == nil || m.company.ID.String() != id {
		return nil, errors.New("no rows")
	}
	cp := *m.company
	return &cp, nil
}

func (m *mockRepo) GetBySlug(_ context.Context, slug string) (*Company, error) {
	if m.company == nil || m.company.Slug != slug {
		return nil, errors.New("no rows")
	}
	cp := *m.company
	return &cp, nil
}

func (m *mockRepo) UpdateSettings(_ context.Context, c *Company) error {
	m.company = c
	return nil
}

func TestCreateDefaults(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	c, err := svc.Create(context.Background(), CreateCompanyRequest{
		Name: "Lanchonete da Ana",
		Slug: "  Lanchonete-Da-Ana ",
	})
	require.NoError(t, err)

	assert.Equal(t, "lanchonete-da-ana", c.Slug)
	assert.Equal(t, DeliveryFixed, c.DeliveryOption)
	assert.False(t, c.IsOpen, "new merchants start closed")
	assert.Equal(t, []string{"pix"}, c.PaymentMethods)
}

func TestCreateRejectsBadSlug(t *testing.T) {
	svc := NewService(&mockRepo{})

	_, err := svc.Create(context.Background(), CreateCompanyRequest{Name: "Ana", Slug: "has space"})
	assert.Error(t, err)
}

func TestUpdateSettings(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	c, err := svc.Create(context.Background(), CreateCompanyRequest{Name: "Ana", Slug: "ana"})
	require.NoError(t, err)

	updated, err := svc.UpdateSettings(context.Background(), c.ID.String(), UpdateSettingsRequest{
		WhatsappNumber: "5514999990000",
		Address:        "Rua A, 1 - Centro - Lins",
		DeliveryOption: "automatic",
		KmRate:         200,
		MinimumOrder:   1500,
		PaymentMethods: []string{"pix", "dinheiro"},
		IsOpen:         true,
	})
	require.NoError(t, err)

	assert.Equal(t, DeliveryAutomatic, updated.DeliveryOption)
	assert.True(t, updated.IsOpen)
	assert.Equal(t, "Ana", updated.Name, "blank name in the request keeps the current one")
}

func TestUpdateSettingsValidation(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo)

	c, err := svc.Create(context.Background(), CreateCompanyRequest{Name: "Ana", Slug: "ana"})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  UpdateSettingsRequest
	}{
		{"unknown delivery option", UpdateSettingsRequest{
			DeliveryOption: "DRONE", PaymentMethods: []string{"pix"},
		}},
		{"negative fee", UpdateSettingsRequest{
			DeliveryOption: "FIXED", FixedFee: -1, PaymentMethods: []string{"pix"},
		}},
		{"no payment methods", UpdateSettingsRequest{
			DeliveryOption: "FIXED",
		}},
		{"automatic without store address", UpdateSettingsRequest{
			DeliveryOption: "AUTOMATIC", PaymentMethods: []string{"pix"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UpdateSettings(context.Background(), c.ID.String(), tt.req)
			assert.Error(t, err)
		})
	}
}
