// Package catalog реализует фильтрацию списка товаров по выбранным
// пользователем критериям. Фильтр чистый: без ввода-вывода, пригоден
// для синхронного перевычисления на каждое изменение критериев.
package catalog

import (
	"strings"

	"github.com/rajivgeraev/campus-bazaar-api/internal/models"
)

// All — значение критерия, отключающее соответствующую проверку
const All = "all"

// Criteria — набор выбранных пользователем ограничений.
// Пустое значение поля эквивалентно "all" (пустой поиск пропускает все).
type Criteria struct {
	Search          string `json:"search"`
	Category        string `json:"category"`
	Condition       string `json:"condition"`
	TransactionType string `json:"transaction_type"`
}

// normalize приводит пустые поля критериев к "all"
func (c Criteria) normalize() Criteria {
	if c.Category == "" {
		c.Category = All
	}
	if c.Condition == "" {
		c.Condition = All
	}
	if c.TransactionType == "" {
		c.TransactionType = All
	}
	return c
}

// Matches сообщает, проходит ли товар все четыре проверки критериев
func Matches(p models.Product, c Criteria) bool {
	c = c.normalize()

	matchesSearch := c.Search == "" ||
		strings.Contains(strings.ToLower(p.Title), strings.ToLower(c.Search))

	matchesCategory := c.Category == All ||
		(p.CategoryID != nil && p.CategoryID.String() == c.Category)

	matchesCondition := c.Condition == All || p.Condition == c.Condition

	// Товар "both" подходит и под продажу, и под обмен
	matchesType := c.TransactionType == All ||
		p.TransactionType == c.TransactionType ||
		((c.TransactionType == "sell" || c.TransactionType == "exchange") && p.TransactionType == "both")

	return matchesSearch && matchesCategory && matchesCondition && matchesType
}

// Filter возвращает подпоследовательность товаров, проходящих критерии,
// сохраняя исходный порядок
func Filter(products []models.Product, c Criteria) []models.Product {
	filtered := make([]models.Product, 0, len(products))
	for _, p := range products {
		if Matches(p, c) {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

// ActiveFilterCount считает критерии, отличные от "all".
// Поисковая строка в счетчик не входит.
func ActiveFilterCount(c Criteria) int {
	c = c.normalize()

	count := 0
	for _, f := range []string{c.Category, c.Condition, c.TransactionType} {
		if f != All {
			count++
		}
	}
	return count
}
