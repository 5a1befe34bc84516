package services

import (
	"context"
	"database/sql"
	"sort"
	"strings"

	"financas-api/models"
	"financas-api/utils"

	"github.com/shopspring/decimal"
)

// Suggestion sources, in decreasing confidence order.
var (
	confidenceRule     = decimal.NewFromFloat(0.95)
	confidenceCache    = decimal.NewFromFloat(0.90)
	confidenceAI       = decimal.NewFromFloat(0.70)
	confidenceFallback = decimal.NewFromFloat(0.30)
)

const fallbackCategory = "Outros"

type CategorizerService struct {
	db *sql.DB
	ai *AICategorizer
}

func NewCategorizerService(db *sql.DB) *CategorizerService {
	return &CategorizerService{
		db: db,
		ai: NewAICategorizer(),
	}
}

// Static merchant dictionary, checked before any paid lookup.
var staticRules = map[string]string{
	// Alimentação
	"ifood": "Alimentação", "rappi": "Alimentação", "carrefour": "Alimentação",
	"pão de açúcar": "Alimentação", "pao de acucar": "Alimentação", "extra": "Alimentação",
	"assaí": "Alimentação", "assai": "Alimentação", "atacadão": "Alimentação",
	"mcdonald": "Alimentação", "burger king": "Alimentação", "habib": "Alimentação",

	// Transporte
	"uber": "Transporte", "99app": "Transporte", "99 pop": "Transporte",
	"shell": "Transporte", "ipiranga": "Transporte", "petrobras": "Transporte",
	"posto": "Transporte", "metrô": "Transporte", "metro": "Transporte",

	// Moradia
	"enel": "Moradia", "light": "Moradia", "sabesp": "Moradia", "comgás": "Moradia",
	"comgas": "Moradia", "condomínio": "Moradia", "condominio": "Moradia",
	"aluguel": "Moradia",

	// Internet e telefonia
	"vivo": "Internet e Telefonia", "claro": "Internet e Telefonia",
	"tim": "Internet e Telefonia", "oi": "Internet e Telefonia", "net": "Internet e Telefonia",

	// Assinaturas e lazer
	"netflix": "Lazer", "spotify": "Lazer", "disney": "Lazer", "prime video": "Lazer",
	"globoplay": "Lazer", "smart fit": "Lazer", "smartfit": "Lazer", "steam": "Lazer",

	// Saúde
	"drogasil": "Saúde", "droga raia": "Saúde", "pague menos": "Saúde",
	"unimed": "Saúde", "amil": "Saúde", "farmácia": "Saúde", "farmacia": "Saúde",

	// Educação
	"udemy": "Educação", "alura": "Educação", "kumon": "Educação",

	// Bancos e tarifas
	"nubank": "Tarifas Bancárias", "itaú": "Tarifas Bancárias", "itau": "Tarifas Bancárias",
	"bradesco": "Tarifas Bancárias", "santander": "Tarifas Bancárias",
	"banco do brasil": "Tarifas Bancárias", "caixa": "Tarifas Bancárias",
}

// Longest keys first, so "netflix" wins over "net" on substring matches.
var staticRuleKeys = func() []string {
	keys := make([]string, 0, len(staticRules))
	for key := range staticRules {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}()

// Suggest resolves a category for the description: static rules, then the
// label cache, then the AI. Never fails the caller — on AI unavailability it
// answers the fallback category with low confidence.
func (s *CategorizerService) Suggest(ctx context.Context, description string) *models.AISuggestion {
	normalized := strings.ToLower(strings.TrimSpace(description))
	if normalized == "" {
		return &models.AISuggestion{
			Category:    fallbackCategory,
			Explanation: "empty description",
			Confidence:  confidenceFallback,
		}
	}

	if category, ok := staticRules[normalized]; ok {
		return &models.AISuggestion{
			Category:    category,
			Explanation: "matched known merchant",
			Confidence:  confidenceRule,
		}
	}
	for _, key := range staticRuleKeys {
		if strings.Contains(normalized, key) {
			return &models.AISuggestion{
				Category:    staticRules[key],
				Explanation: "matched known merchant \"" + key + "\"",
				Confidence:  confidenceRule,
			}
		}
	}

	var cached string
	err := s.db.QueryRowContext(ctx,
		"SELECT category FROM label_mappings WHERE normalized_label = $1",
		normalized).Scan(&cached)
	if err == nil {
		return &models.AISuggestion{
			Category:    cached,
			Explanation: "previously categorized label",
			Confidence:  confidenceCache,
		}
	}

	aiCategory, err := s.ai.PredictCategory(ctx, description)
	if err != nil {
		utils.SafeWarn("categorizer: AI unavailable: %v", err)
		return &models.AISuggestion{
			Category:    fallbackCategory,
			Explanation: "no match found",
			Confidence:  confidenceFallback,
		}
	}

	go func(label, category string) {
		_, err := s.db.Exec(
			"INSERT INTO label_mappings (normalized_label, category) VALUES ($1, $2) ON CONFLICT (normalized_label) DO NOTHING",
			label, category,
		)
		if err != nil {
			utils.SafeWarn("categorizer: failed to cache label: %v", err)
		}
	}(normalized, aiCategory)

	return &models.AISuggestion{
		Category:    aiCategory,
		Explanation: "suggested by AI",
		Confidence:  confidenceAI,
	}
}
