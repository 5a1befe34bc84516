package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The static-rule and empty-description paths answer before touching the
// database or the AI, so a zero-value service is enough to exercise them.
func TestSuggestStaticRules(t *testing.T) {
	svc := &CategorizerService{}
	ctx := context.Background()

	tests := []struct {
		description  string
		wantCategory string
	}{
		{"ifood", "Alimentação"},
		{"IFOOD *PEDIDO 12345", "Alimentação"},
		{"Uber Trip SAO PAULO", "Transporte"},
		{"NETFLIX.COM", "Lazer"},
		{"Pagamento NUBANK", "Tarifas Bancárias"},
		{"Drogasil filial 42", "Saúde"},
		{"condominio edificio aurora", "Moradia"},
	}

	for _, tt := range tests {
		t.Run(tt.description, func(t *testing.T) {
			got := svc.Suggest(ctx, tt.description)
			require.NotNil(t, got)
			assert.Equal(t, tt.wantCategory, got.Category)
			assert.True(t, got.Confidence.Equal(confidenceRule))
		})
	}
}

func TestSuggestEmptyDescription(t *testing.T) {
	svc := &CategorizerService{}

	got := svc.Suggest(context.Background(), "   ")
	require.NotNil(t, got)
	assert.Equal(t, fallbackCategory, got.Category)
	assert.True(t, got.Confidence.Equal(confidenceFallback))
}
