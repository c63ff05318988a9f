package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/millops/config"
	"example.com/millops/internal/document"
)

func TestDisabledClientNoOps(t *testing.T) {
	client := NewDisabledClient()

	order := &document.Order{ID: 1, ProductName: "Teff", Quantity: 5, Status: document.OrderCompleted}
	require.NoError(t, client.IndexOrder(context.Background(), order, "Abebe", "Kebede"))

	_, err := client.SearchOrders(context.Background(), map[string]interface{}{})
	require.Error(t, err)
}

func TestNewElasticClientDisabledByConfig(t *testing.T) {
	client, err := NewElasticClient(config.ElasticConfig{Enabled: false})
	require.NoError(t, err)
	require.NoError(t, client.IndexOrder(context.Background(), &document.Order{ID: 1}, "", ""))
}
