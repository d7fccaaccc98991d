package latex

import (
	"fmt"
	"strings"
)

// Language selects the wording of the report.
type Language string

const (
	English Language = "en"
	Russian Language = "ru"
)

// DefaultLanguage is used when no language is configured.
const DefaultLanguage = English

// ParseLanguage accepts "en" or "ru" in any case; empty means [DefaultLanguage].
func ParseLanguage(s string) (Language, error) {
	switch l := Language(strings.ToLower(strings.TrimSpace(s))); l {
	case "":
		return DefaultLanguage, nil
	case English, Russian:
		return l, nil
	default:
		return "", fmt.Errorf("unsupported language %q (must be one of: en, ru)", s)
	}
}

type phrases struct {
	title             string
	intro             string
	conditionCaption  string
	solution          string
	open              string
	addedColumn       string
	addedRow          string
	closedCaption     string
	initial           string
	initialCaption    string
	degenerate        string
	degenerateCaption string
	potentials        string
	potentialsCaption string
	cycleCaption      string
	answer            string
	cost              string
	stock             string
}

var wording = map[Language]phrases{
	English: {
		title:             "Transportation problem",
		intro:             "The transportation problem is given by the table below. Find a shipping plan with the minimum-element method, then the optimal plan with the method of potentials.",
		conditionCaption:  "Problem statement",
		solution:          "Solution",
		open:              "The problem is open because total supply differs from total demand: ",
		addedColumn:       "A slack column was added to close it.",
		addedRow:          "A slack row was added to close it.",
		closedCaption:     "Closed problem",
		initial:           "Build the initial plan with the minimum-element method.",
		initialCaption:    "Initial shipping plan",
		degenerate:        "The plan is degenerate (potentials cannot be computed). Repaired plan:",
		degenerateCaption: "Shipping plan with an added zero",
		potentials:        "Compute the potentials of the current plan:",
		potentialsCaption: "Potentials",
		cycleCaption:      "Cycle for rebuilding the plan",
		answer:            "Answer: ",
		cost:              ", cost: ",
		stock:             "Supply",
	},
	Russian: {
		title:             "Транспортная задача",
		intro:             "Транспортная задача задана таблицей. Необходимо найти перевозку методом минимального элемента, а затем найти оптимальное решение методом потенциалов.",
		conditionCaption:  "Условие задачи",
		solution:          "Решение",
		open:              "Задача является открытой, так как сумма всех ресурсов не равна сумме потребностей: ",
		addedColumn:       "Для преобразования к закрытой добавили дополнительный столбец.",
		addedRow:          "Для преобразования к закрытой добавили дополнительный ряд.",
		closedCaption:     "Новая закрытая задача",
		initial:           "Составим первоначальный план перевозок методом минимального элемента",
		initialCaption:    "Начальный план перевозок",
		degenerate:        "Задача является вырожденной (невозможно рассчитать потенциалы). Исправленный план:",
		degenerateCaption: "План перевозок с дополнительным нулем.",
		potentials:        "Рассчитаем потенциалы текущего плана:",
		potentialsCaption: "Таблица потенциалов",
		cycleCaption:      "Цикл для перестроения плана",
		answer:            "Ответ: ",
		cost:              ", стоимость: ",
		stock:             "Запасы",
	},
}
