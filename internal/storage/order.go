package storage

import "time"

// Order строка выгрузки заказов из 1С. Поля именованные и типизированные:
// позиционные индексы листа Excel остаются внутри импортёра.
type Order struct {
	ID             int64     `json:"id"`
	OrderNum       string    `json:"order_num"`
	Date           time.Time `json:"date"`
	Time           string    `json:"time"`
	Amount         float64   `json:"amount"`
	Client         *string   `json:"client"`
	Status         *string   `json:"status"`
	Manager        string    `json:"manager"`
	Comment        *string   `json:"comment"`
	BusinessRegion *string   `json:"business_region"`
	Link           *string   `json:"link"`
	SiteOrderNum   *string   `json:"site_order_num"`
}

// TextFields текстовые колонки заказа, участвующие в починке кодировки
type TextFields struct {
	ID             int64
	OrderNum       string
	Client         *string
	Status         *string
	Manager        string
	Comment        *string
	BusinessRegion *string
}
