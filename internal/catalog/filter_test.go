package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/rajivgeraev/campus-bazaar-api/internal/models"
)

func makeProduct(title, condition, transactionType string, categoryID *uuid.UUID) models.Product {
	return models.Product{
		ID:              uuid.New(),
		Title:           title,
		Condition:       condition,
		TransactionType: transactionType,
		CategoryID:      categoryID,
		Status:          "available",
	}
}

// Базовый набор из двух товаров для сквозных сценариев
func sampleProducts() []models.Product {
	return []models.Product{
		makeProduct("Calculus Book", "good", "sell", nil),
		makeProduct("Bike", "new", "exchange", nil),
	}
}

func TestFilter_IdentityLaw(t *testing.T) {
	products := sampleProducts()

	// Критерии "all" с пустым поиском возвращают вход без изменений
	result := Filter(products, Criteria{
		Search:          "",
		Category:        All,
		Condition:       All,
		TransactionType: All,
	})

	assert.Equal(t, products, result)
}

func TestFilter_ZeroCriteriaEqualsAll(t *testing.T) {
	products := sampleProducts()

	// Пустые поля критериев эквивалентны "all"
	assert.Equal(t, products, Filter(products, Criteria{}))
}

func TestFilter_SearchScenario(t *testing.T) {
	products := sampleProducts()

	result := Filter(products, Criteria{
		Search:          "cal",
		Category:        All,
		Condition:       All,
		TransactionType: All,
	})

	assert.Len(t, result, 1)
	assert.Equal(t, "Calculus Book", result[0].Title)
}

func TestFilter_ExchangeScenario(t *testing.T) {
	products := sampleProducts()

	result := Filter(products, Criteria{
		Search:          "",
		Category:        All,
		Condition:       All,
		TransactionType: "exchange",
	})

	assert.Len(t, result, 1)
	assert.Equal(t, "Bike", result[0].Title)
}

func TestFilter_SearchCaseInsensitive(t *testing.T) {
	products := sampleProducts()

	for _, term := range []string{"BIKE", "bike", "BiKe"} {
		result := Filter(products, Criteria{Search: term})
		assert.Len(t, result, 1, "поиск %q должен находить Bike", term)
		assert.Equal(t, "Bike", result[0].Title)
	}
}

func TestMatches_TransactionType(t *testing.T) {
	tests := []struct {
		name        string
		productType string
		criteria    string
		want        bool
	}{
		{"both подходит под продажу", "both", "sell", true},
		{"both подходит под обмен", "both", "exchange", true},
		{"both подходит под all", "both", All, true},
		{"sell не подходит под обмен", "sell", "exchange", false},
		{"exchange не подходит под продажу", "exchange", "sell", false},
		{"точное совпадение sell", "sell", "sell", true},
		{"точное совпадение exchange", "exchange", "exchange", true},
		{"критерий both совпадает только с both", "sell", "both", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := makeProduct("Lamp", "good", tt.productType, nil)
			got := Matches(p, Criteria{TransactionType: tt.criteria})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMatches_Category(t *testing.T) {
	categoryID := uuid.New()
	otherID := uuid.New()

	withCategory := makeProduct("Desk", "good", "sell", &categoryID)
	withoutCategory := makeProduct("Chair", "good", "sell", nil)

	assert.True(t, Matches(withCategory, Criteria{Category: categoryID.String()}))
	assert.False(t, Matches(withCategory, Criteria{Category: otherID.String()}))
	assert.True(t, Matches(withCategory, Criteria{Category: All}))

	// Товар без категории не проходит конкретный выбор категории
	assert.False(t, Matches(withoutCategory, Criteria{Category: categoryID.String()}))
	assert.True(t, Matches(withoutCategory, Criteria{Category: All}))
}

func TestMatches_Condition(t *testing.T) {
	p := makeProduct("Headphones", "like-new", "sell", nil)

	assert.True(t, Matches(p, Criteria{Condition: "like-new"}))
	assert.False(t, Matches(p, Criteria{Condition: "poor"}))
	assert.True(t, Matches(p, Criteria{Condition: All}))
}

func TestMatches_AllClausesRequired(t *testing.T) {
	categoryID := uuid.New()
	p := makeProduct("Calculus Book", "good", "sell", &categoryID)

	match := Criteria{
		Search:          "calc",
		Category:        categoryID.String(),
		Condition:       "good",
		TransactionType: "sell",
	}
	assert.True(t, Matches(p, match))

	// Несовпадение любой из четырех проверок исключает товар
	broken := []Criteria{
		{Search: "bike", Category: match.Category, Condition: match.Condition, TransactionType: match.TransactionType},
		{Search: match.Search, Category: uuid.NewString(), Condition: match.Condition, TransactionType: match.TransactionType},
		{Search: match.Search, Category: match.Category, Condition: "poor", TransactionType: match.TransactionType},
		{Search: match.Search, Category: match.Category, Condition: match.Condition, TransactionType: "exchange"},
	}
	for i, c := range broken {
		assert.False(t, Matches(p, c), "критерий #%d не должен совпадать", i)
	}
}

func TestFilter_Idempotent(t *testing.T) {
	products := []models.Product{
		makeProduct("Calculus Book", "good", "sell", nil),
		makeProduct("Bike", "new", "exchange", nil),
		makeProduct("Backpack", "fair", "both", nil),
	}

	criteria := Criteria{TransactionType: "sell"}

	once := Filter(products, criteria)
	twice := Filter(once, criteria)

	assert.Equal(t, once, twice)
}

func TestFilter_PreservesOrder(t *testing.T) {
	products := []models.Product{
		makeProduct("Physics Book", "good", "sell", nil),
		makeProduct("Chemistry Book", "fair", "sell", nil),
		makeProduct("Biology Book", "new", "sell", nil),
	}

	result := Filter(products, Criteria{Search: "book"})

	assert.Len(t, result, 3)
	assert.Equal(t, "Physics Book", result[0].Title)
	assert.Equal(t, "Chemistry Book", result[1].Title)
	assert.Equal(t, "Biology Book", result[2].Title)
}

func TestActiveFilterCount(t *testing.T) {
	assert.Equal(t, 0, ActiveFilterCount(Criteria{}))
	assert.Equal(t, 0, ActiveFilterCount(Criteria{Category: All, Condition: All, TransactionType: All}))

	// Поисковая строка в счетчик активных фильтров не входит
	assert.Equal(t, 0, ActiveFilterCount(Criteria{Search: "bike"}))

	assert.Equal(t, 1, ActiveFilterCount(Criteria{Condition: "good"}))
	assert.Equal(t, 3, ActiveFilterCount(Criteria{
		Category:        uuid.NewString(),
		Condition:       "good",
		TransactionType: "sell",
	}))
}
