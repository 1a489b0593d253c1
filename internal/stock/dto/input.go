package dto

type AdjustInput struct {
	Quantity    int64  `json:"quantity"`
	Description string `json:"description"`
}
