// Package view вычисляет производное состояние читающей стороны:
// уровень запаса, фильтрацию и сортировку списка инвентаря.
// Все функции чистые: ничего не хранится, результат зависит только от входа.
package view

import (
	"sort"
	"strings"

	"github.com/YCCCVRLab/yccc-nurse-stash/models"
)

// StockLevel - производная классификация запаса; не хранится в записи.
type StockLevel string

const (
	StockOut    StockLevel = "out"
	StockLow    StockLevel = "low"
	StockMedium StockLevel = "medium"
	StockGood   StockLevel = "good"
)

// Поддерживаемые порядки сортировки.
const (
	SortByItem      = "item"       // По имени записи, по возрастанию (по умолчанию)
	SortByQuantity  = "quantity"   // По количеству, по убыванию; нечисловое считается нулем
	SortByLocation  = "location"   // По местоположению, по возрастанию
	SortByUpdatedAt = "updated_at" // По времени обновления, сначала свежие
)

// FilterAll - значение "без фильтра" для местоположения и уровня запаса.
const FilterAll = "all"

// Пороговые значения уровней запаса.
const (
	lowStockMax    = 5
	mediumStockMax = 15
)

// StockLevelFor классифицирует запас по строке количества:
// пустая строка, "0" и нечисловые значения - out; до 5 - low;
// до 15 - medium; больше - good.
func StockLevelFor(quantity string) StockLevel {
	if quantity == "" || quantity == "0" {
		return StockOut
	}
	num, ok := leadingInt(quantity)
	switch {
	case !ok:
		return StockOut
	case num <= lowStockMax:
		return StockLow
	case num <= mediumStockMax:
		return StockMedium
	default:
		return StockGood
	}
}

// Filter описывает параметры фильтрации и сортировки списка.
// Пустая строка поиска пропускает все; Location и StockLevel со значением
// "all" (или пустым) не ограничивают список.
type Filter struct {
	Search     string
	Location   string
	StockLevel string
	SortBy     string
}

// Apply возвращает новый срез записей, прошедших фильтр, в запрошенном
// порядке. Исходный срез не меняется. Сортировка устойчива, поэтому при
// равенстве ключей сохраняется серверный порядок (по имени записи).
func (f Filter) Apply(items []models.InventoryItem) []models.InventoryItem {
	filtered := make([]models.InventoryItem, 0, len(items))
	for _, item := range items {
		if f.matches(item) {
			filtered = append(filtered, item)
		}
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i], filtered[j]
		switch f.SortBy {
		case SortByQuantity:
			return quantityValue(a.Quantity) > quantityValue(b.Quantity)
		case SortByLocation:
			return a.Location < b.Location
		case SortByUpdatedAt:
			return a.UpdatedAt.After(b.UpdatedAt)
		default:
			return a.Item < b.Item
		}
	})
	return filtered
}

// matches проверяет запись против всех трех предикатов фильтра.
func (f Filter) matches(item models.InventoryItem) bool {
	search := strings.ToLower(f.Search)
	matchesSearch := search == "" ||
		strings.Contains(strings.ToLower(item.Item), search) ||
		strings.Contains(strings.ToLower(item.Description), search) ||
		strings.Contains(strings.ToLower(item.Location), search)

	matchesLocation := f.Location == "" || f.Location == FilterAll || item.Location == f.Location

	level := string(StockLevelFor(item.Quantity))
	matchesStockLevel := f.StockLevel == "" || f.StockLevel == FilterAll || level == f.StockLevel

	return matchesSearch && matchesLocation && matchesStockLevel
}

// Locations возвращает отсортированный список уникальных местоположений.
func Locations(items []models.InventoryItem) []string {
	seen := make(map[string]struct{}, len(items))
	var locations []string
	for _, item := range items {
		if _, ok := seen[item.Location]; !ok {
			seen[item.Location] = struct{}{}
			locations = append(locations, item.Location)
		}
	}
	sort.Strings(locations)
	return locations
}

// quantityValue возвращает числовое значение количества для сортировки;
// нечисловые значения считаются нулем.
func quantityValue(quantity string) int {
	num, ok := leadingInt(quantity)
	if !ok {
		return 0
	}
	return num
}

// leadingInt разбирает ведущий целочисленный префикс строки так же, как
// parseInt в исходном веб-приложении: пробелы в начале пропускаются,
// допускается знак, разбор идет до первого нецифрового символа.
// Возвращает false, если цифр нет вовсе.
func leadingInt(s string) (int, bool) {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	sign := 1
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		if s[i] == '-' {
			sign = -1
		}
		i++
	}
	start := i
	num := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		num = num*10 + int(s[i]-'0')
		i++
	}
	if i == start {
		return 0, false
	}
	return sign * num, true
}
