package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iol-platform/logistics-service/internal/domain"
	"github.com/iol-platform/logistics-service/pkg/logging"
)

type mockCompanyRepo struct {
	FindByIDFunc    func(ctx context.Context, companyID string) (*domain.Company, error)
	CreateFunc      func(ctx context.Context, company *domain.Company) error
	FindAllFunc     func(ctx context.Context) ([]*domain.Company, error)
	FindByTopicFunc func(ctx context.Context, topic string) ([]*domain.Company, error)
	UpdateFunc      func(ctx context.Context, companyID string, fields map[string]any) error
	DeleteFunc      func(ctx context.Context, companyID string) error
}

func (m *mockCompanyRepo) Create(ctx context.Context, company *domain.Company) error {
	return m.CreateFunc(ctx, company)
}

func (m *mockCompanyRepo) FindByID(ctx context.Context, companyID string) (*domain.Company, error) {
	return m.FindByIDFunc(ctx, companyID)
}

func (m *mockCompanyRepo) FindAll(ctx context.Context) ([]*domain.Company, error) {
	return m.FindAllFunc(ctx)
}

func (m *mockCompanyRepo) FindByTopic(ctx context.Context, topic string) ([]*domain.Company, error) {
	return m.FindByTopicFunc(ctx, topic)
}

func (m *mockCompanyRepo) Update(ctx context.Context, companyID string, fields map[string]any) error {
	return m.UpdateFunc(ctx, companyID, fields)
}

func (m *mockCompanyRepo) Delete(ctx context.Context, companyID string) error {
	return m.DeleteFunc(ctx, companyID)
}

type mockLoRepo struct {
	InsertFunc          func(ctx context.Context, lo *domain.LogisticsObject) error
	FindByCompanyFunc   func(ctx context.Context, companyID string) ([]*domain.LogisticsObject, error)
	FindOneFunc         func(ctx context.Context, companyID, loID string) (*domain.LogisticsObject, error)
	UpdateContentFunc   func(ctx context.Context, companyID, loID string, content domain.Document) error
	DeleteFunc          func(ctx context.Context, companyID, loID string) error
	DeleteByCompanyFunc func(ctx context.Context, companyID string) error
}

func (m *mockLoRepo) Insert(ctx context.Context, lo *domain.LogisticsObject) error {
	return m.InsertFunc(ctx, lo)
}

func (m *mockLoRepo) FindByCompany(ctx context.Context, companyID string) ([]*domain.LogisticsObject, error) {
	return m.FindByCompanyFunc(ctx, companyID)
}

func (m *mockLoRepo) FindOne(ctx context.Context, companyID, loID string) (*domain.LogisticsObject, error) {
	return m.FindOneFunc(ctx, companyID, loID)
}

func (m *mockLoRepo) UpdateContent(ctx context.Context, companyID, loID string, content domain.Document) error {
	return m.UpdateContentFunc(ctx, companyID, loID, content)
}

func (m *mockLoRepo) Delete(ctx context.Context, companyID, loID string) error {
	return m.DeleteFunc(ctx, companyID, loID)
}

func (m *mockLoRepo) DeleteByCompany(ctx context.Context, companyID string) error {
	return m.DeleteByCompanyFunc(ctx, companyID)
}

type mockNotifier struct {
	calls []string
}

func (m *mockNotifier) NotifySubscribers(ctx context.Context, topic string, content domain.Document) {
	m.calls = append(m.calls, topic)
}

func testLogger() *logging.Logger {
	return logging.New(logging.DefaultConfig("test"))
}

func existingCompanyRepo(companyID string) *mockCompanyRepo {
	return &mockCompanyRepo{
		FindByIDFunc: func(ctx context.Context, id string) (*domain.Company, error) {
			if id == companyID {
				return &domain.Company{CompanyID: companyID}, nil
			}
			return nil, domain.ErrCompanyNotFound
		},
	}
}

func TestCreate_GeneratesIdentityAndStores(t *testing.T) {
	var inserted *domain.LogisticsObject
	loRepo := &mockLoRepo{
		InsertFunc: func(ctx context.Context, lo *domain.LogisticsObject) error {
			inserted = lo
			return nil
		},
	}
	notifier := &mockNotifier{}

	svc := NewLogisticsObjectService(loRepo, existingCompanyRepo("acme"), notifier, nil, nil, testLogger(), "https://server.example.com")

	lo, err := svc.Create(context.Background(), "acme", domain.Document{"@type": "Booking"}, false)

	require.NoError(t, err)
	require.NotNil(t, inserted)
	assert.Equal(t, "Booking", lo.Type)
	assert.Equal(t, "acme", lo.CompanyID)
	assert.Equal(t, "https://server.example.com/companies/acme/los/"+lo.LoID, lo.URL)
	assert.Equal(t, lo.URL, lo.Content["@id"])
	assert.Empty(t, notifier.calls)
}

func TestCreate_AlertSubscribersTriggersNotification(t *testing.T) {
	loRepo := &mockLoRepo{
		InsertFunc: func(ctx context.Context, lo *domain.LogisticsObject) error { return nil },
	}
	notifier := &mockNotifier{}

	svc := NewLogisticsObjectService(loRepo, existingCompanyRepo("acme"), notifier, nil, nil, testLogger(), "https://server.example.com")

	_, err := svc.Create(context.Background(), "acme", domain.Document{"@type": "Airwaybill"}, true)

	require.NoError(t, err)
	assert.Equal(t, []string{"Airwaybill"}, notifier.calls)
}

func TestCreate_RejectsMissingType(t *testing.T) {
	loRepo := &mockLoRepo{
		InsertFunc: func(ctx context.Context, lo *domain.LogisticsObject) error {
			t.Fatal("should not insert an object without @type")
			return nil
		},
	}

	svc := NewLogisticsObjectService(loRepo, existingCompanyRepo("acme"), nil, nil, nil, testLogger(), "https://server.example.com")

	_, err := svc.Create(context.Background(), "acme", domain.Document{"waybillNumber": "123"}, false)

	assert.ErrorIs(t, err, domain.ErrTypeMissing)
}

func TestCreate_UnknownCompany(t *testing.T) {
	svc := NewLogisticsObjectService(&mockLoRepo{}, existingCompanyRepo("acme"), nil, nil, nil, testLogger(), "https://server.example.com")

	_, err := svc.Create(context.Background(), "ghost", domain.Document{"@type": "Booking"}, false)

	assert.ErrorIs(t, err, domain.ErrCompanyNotFound)
}

func TestList_ReturnsProjections(t *testing.T) {
	loRepo := &mockLoRepo{
		FindByCompanyFunc: func(ctx context.Context, companyID string) ([]*domain.LogisticsObject, error) {
			return []*domain.LogisticsObject{
				{LoID: "lo-1", Type: "Booking", URL: "u1", Content: domain.Document{"@type": "Booking"}},
				{LoID: "lo-2", Type: "Airwaybill", URL: "u2", Content: domain.Document{"@type": "Airwaybill"}},
			}, nil
		},
	}

	svc := NewLogisticsObjectService(loRepo, existingCompanyRepo("acme"), nil, nil, nil, testLogger(), "https://server.example.com")

	views, err := svc.List(context.Background(), "acme")

	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "lo-1", views[0].LoID)
	assert.Equal(t, "Booking", views[0].Type)
	assert.Equal(t, "u1", views[0].URL)
}

func TestPatch_MergesAndPersists(t *testing.T) {
	stored := &domain.LogisticsObject{
		LoID:      "lo-1",
		CompanyID: "acme",
		Type:      "Booking",
		Content: domain.Document{
			"@id":    "https://server.example.com/companies/acme/los/lo-1",
			"@type":  "Booking",
			"pieces": []any{"p1"},
		},
	}

	var persisted domain.Document
	loRepo := &mockLoRepo{
		FindOneFunc: func(ctx context.Context, companyID, loID string) (*domain.LogisticsObject, error) {
			return stored, nil
		},
		UpdateContentFunc: func(ctx context.Context, companyID, loID string, content domain.Document) error {
			persisted = content
			return nil
		},
	}

	svc := NewLogisticsObjectService(loRepo, existingCompanyRepo("acme"), nil, nil, nil, testLogger(), "https://server.example.com")

	lo, err := svc.Patch(context.Background(), "acme", "lo-1", domain.Document{
		"@id":    "https://evil.example.com/los/other",
		"pieces": []any{"p2"},
		"status": "confirmed",
	})

	require.NoError(t, err)
	assert.Equal(t, "https://server.example.com/companies/acme/los/lo-1", lo.Content["@id"])
	assert.Equal(t, []any{"p1", "p2"}, persisted["pieces"])
	assert.Equal(t, "confirmed", persisted["status"])
}

func TestDelete_ScopedToCompany(t *testing.T) {
	var gotCompany, gotLo string
	loRepo := &mockLoRepo{
		DeleteFunc: func(ctx context.Context, companyID, loID string) error {
			gotCompany, gotLo = companyID, loID
			return nil
		},
	}

	svc := NewLogisticsObjectService(loRepo, existingCompanyRepo("acme"), nil, nil, nil, testLogger(), "https://server.example.com")

	err := svc.Delete(context.Background(), "acme", "lo-1")

	require.NoError(t, err)
	assert.Equal(t, "acme", gotCompany)
	assert.Equal(t, "lo-1", gotLo)
}
