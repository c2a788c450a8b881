package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iol-platform/logistics-service/internal/domain"
)

type mockInboundRepo struct {
	InsertFunc      func(ctx context.Context, rec *domain.InboundRecord) error
	FindAllFunc     func(ctx context.Context) ([]*domain.InboundRecord, error)
	FindByTopicFunc func(ctx context.Context, topic string) ([]*domain.InboundRecord, error)
}

func (m *mockInboundRepo) Insert(ctx context.Context, rec *domain.InboundRecord) error {
	return m.InsertFunc(ctx, rec)
}

func (m *mockInboundRepo) FindAll(ctx context.Context) ([]*domain.InboundRecord, error) {
	return m.FindAllFunc(ctx)
}

func (m *mockInboundRepo) FindByTopic(ctx context.Context, topic string) ([]*domain.InboundRecord, error) {
	return m.FindByTopicFunc(ctx, topic)
}

func testIdentity() ServerIdentity {
	return ServerIdentity{
		BaseURL:            "https://server.example.com",
		CompanyName:        "Acme Air Cargo",
		SubscriptionSecret: "push-secret",
		CacheFor:           86400,
	}
}

func TestReceiveNotification_DuplicatePushesStoredTwice(t *testing.T) {
	var inserted []*domain.InboundRecord
	inbound := &mockInboundRepo{
		InsertFunc: func(ctx context.Context, rec *domain.InboundRecord) error {
			inserted = append(inserted, rec)
			return nil
		},
	}

	svc := NewSubscriptionService(inbound, nil, nil, testLogger(), testIdentity())

	payload := domain.Document{"@type": "Booking", "bookingNumber": "B-1"}
	require.NoError(t, svc.ReceiveNotification(context.Background(), "Booking", payload))
	require.NoError(t, svc.ReceiveNotification(context.Background(), "Booking", payload))

	require.Len(t, inserted, 2)
	assert.Equal(t, inserted[0].Lo, inserted[1].Lo)
	assert.Equal(t, "Booking", inserted[1].Topic)
}

func TestListInbound_TopicEchoedOnlyWhenFiltered(t *testing.T) {
	records := []*domain.InboundRecord{
		{Lo: domain.Document{"@type": "Booking"}, Topic: "Booking"},
	}
	inbound := &mockInboundRepo{
		FindAllFunc: func(ctx context.Context) ([]*domain.InboundRecord, error) {
			return records, nil
		},
		FindByTopicFunc: func(ctx context.Context, topic string) ([]*domain.InboundRecord, error) {
			return records, nil
		},
	}

	svc := NewSubscriptionService(inbound, nil, nil, testLogger(), testIdentity())

	unfiltered, err := svc.ListInbound(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, unfiltered, 1)
	assert.Empty(t, unfiltered[0].Topic)

	filtered, err := svc.ListInbound(context.Background(), "Booking")
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Booking", filtered[0].Topic)
}
