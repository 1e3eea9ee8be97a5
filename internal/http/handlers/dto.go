package handlers

import "encoding/json"

// OptionalString records whether a JSON key was present, and its value.
// A present null leaves Value nil with Set true.
type OptionalString struct {
	Set   bool
	Value *string
}

func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

// RegisterProductRequest is the body of register_product. Required fields are
// checked for presence only: an empty string passes, a missing key or null does not.
type RegisterProductRequest struct {
	ProductName *string        `json:"product_name" validate:"required"`
	ProductCode *string        `json:"product_code" validate:"required"`
	Description OptionalString `json:"description" swaggertype:"string"`
}

type GetProductRequest struct {
	ProductCode *string `json:"product_code" validate:"required"`
}

type EditProductRequest struct {
	ProductCode *string        `json:"product_code" validate:"required"`
	ProductName OptionalString `json:"product_name" swaggertype:"string"`
	Description OptionalString `json:"description" swaggertype:"string"`
}

// RegisteredProduct echoes a registration back to the caller.
type RegisteredProduct struct {
	ProductName string  `json:"product_name"`
	ProductCode string  `json:"product_code"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
