// models/service_type.go
package models

// Service is an entry of the business's service catalog.
type Service struct {
	ID          string  `bson:"id" json:"id"`                   // e.g. "svc-1717171717171"
	Name        string  `bson:"name" json:"name"`               // e.g. "Corte de Cabelo"
	Price       float64 `bson:"price" json:"price"`             // non-negative, business currency
	DurationMin int     `bson:"durationMin" json:"durationMin"` // in minutes, positive
	Description string  `bson:"description" json:"description"`
	Category    string  `bson:"category" json:"category"`
}

// ServiceInput carries a create or partial update of a Service. Nil fields are left untouched.
type ServiceInput struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	DurationMin *int     `json:"durationMin"`
	Description *string  `json:"description"`
	Category    *string  `json:"category"`
}

// DefaultServices seeds an empty catalog.
func DefaultServices() []Service {
	return []Service{
		{ID: "svc-1", Name: "Corte de Cabelo", Price: 60, DurationMin: 45, Description: "Corte masculino com finalização", Category: "Cabelo"},
		{ID: "svc-2", Name: "Barba", Price: 40, DurationMin: 30, Description: "Aparar e desenhar a barba", Category: "Barba"},
		{ID: "svc-3", Name: "Hidratação", Price: 80, DurationMin: 50, Description: "Tratamento capilar hidratante", Category: "Tratamento"},
	}
}
