package api

import (
	"github.com/go-playground/validator/v10"

	"github.com/peytondoyle/tabby/internal/calculator"
	"github.com/peytondoyle/tabby/internal/models"
)

// validate checks request DTOs at the boundary; the calculator revalidates
// only the share-weight rules it owns.
var validate = validator.New()

type itemPayload struct {
	ID       string  `json:"id"`
	Label    string  `json:"label" validate:"required"`
	Price    float64 `json:"price" validate:"gte=0"`
	Quantity int     `json:"quantity" validate:"gte=0"`
	Emoji    string  `json:"emoji"`
}

type personPayload struct {
	ID     string `json:"id"`
	Name   string `json:"name" validate:"required"`
	Avatar string `json:"avatar"`
	IsPaid bool   `json:"is_paid"`
}

type sharePayload struct {
	ItemID   string  `json:"item_id" validate:"required"`
	PersonID string  `json:"person_id" validate:"required"`
	Weight   float64 `json:"weight" validate:"gt=0"`
}

// computeRequest is the full stateless engine input.
type computeRequest struct {
	Items                 []itemPayload   `json:"items" validate:"dive"`
	Shares                []sharePayload  `json:"shares" validate:"dive"`
	People                []personPayload `json:"people" validate:"min=1,dive"`
	Tax                   float64         `json:"tax" validate:"gte=0"`
	Tip                   float64         `json:"tip" validate:"gte=0"`
	Discount              float64         `json:"discount" validate:"gte=0"`
	ServiceFee            float64         `json:"service_fee" validate:"gte=0"`
	TaxMode               string          `json:"tax_mode" validate:"omitempty,oneof=proportional even"`
	TipMode               string          `json:"tip_mode" validate:"omitempty,oneof=proportional even"`
	IncludeZeroItemPeople bool            `json:"include_zero_item_people"`
}

func (r computeRequest) toInput() calculator.Input {
	return calculator.Input{
		Items:                 toItems(r.Items),
		Shares:                toShares(r.Shares),
		People:                toPeople(r.People),
		Tax:                   r.Tax,
		Tip:                   r.Tip,
		Discount:              r.Discount,
		ServiceFee:            r.ServiceFee,
		TaxMode:               toMode(r.TaxMode),
		TipMode:               toMode(r.TipMode),
		IncludeZeroItemPeople: r.IncludeZeroItemPeople,
	}
}

// billRequest creates or replaces a bill snapshot.
type billRequest struct {
	Title                 string          `json:"title"`
	Items                 []itemPayload   `json:"items" validate:"dive"`
	Shares                []sharePayload  `json:"shares" validate:"dive"`
	People                []personPayload `json:"people" validate:"min=1,dive"`
	Tax                   float64         `json:"tax" validate:"gte=0"`
	Tip                   float64         `json:"tip" validate:"gte=0"`
	Discount              float64         `json:"discount" validate:"gte=0"`
	ServiceFee            float64         `json:"service_fee" validate:"gte=0"`
	TaxMode               string          `json:"tax_mode" validate:"omitempty,oneof=proportional even"`
	TipMode               string          `json:"tip_mode" validate:"omitempty,oneof=proportional even"`
	IncludeZeroItemPeople bool            `json:"include_zero_item_people"`
}

func (r billRequest) toBill(createdBy string) *models.Bill {
	return &models.Bill{
		Title:                 r.Title,
		Items:                 toItems(r.Items),
		Shares:                toShares(r.Shares),
		People:                toPeople(r.People),
		Tax:                   r.Tax,
		Tip:                   r.Tip,
		Discount:              r.Discount,
		ServiceFee:            r.ServiceFee,
		TaxMode:               toMode(r.TaxMode),
		TipMode:               toMode(r.TipMode),
		IncludeZeroItemPeople: r.IncludeZeroItemPeople,
		CreatedBy:             createdBy,
	}
}

type assignItemsRequest struct {
	ItemIDs []string `json:"item_ids"`
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"display_name" validate:"required"`
	Password    string `json:"password" validate:"required"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func toItems(in []itemPayload) []models.Item {
	out := make([]models.Item, len(in))
	for i, p := range in {
		out[i] = models.Item{ID: p.ID, Label: p.Label, Price: p.Price, Quantity: p.Quantity, Emoji: p.Emoji}
	}
	return out
}

func toPeople(in []personPayload) []models.Person {
	out := make([]models.Person, len(in))
	for i, p := range in {
		out[i] = models.Person{ID: p.ID, Name: p.Name, Avatar: p.Avatar, IsPaid: p.IsPaid}
	}
	return out
}

func toShares(in []sharePayload) []models.ItemShare {
	out := make([]models.ItemShare, len(in))
	for i, p := range in {
		out[i] = models.ItemShare{ItemID: p.ItemID, PersonID: p.PersonID, Weight: p.Weight}
	}
	return out
}

func toMode(s string) models.ChargeMode {
	if s == "" {
		return models.ChargeModeProportional
	}
	return models.ChargeMode(s)
}
