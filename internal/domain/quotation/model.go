package quotation

import (
	"math"
	"slices"
	"strings"
)

type Unit string

const (
	UnitKg     Unit = "Kg"
	UnitNos    Unit = "Nos"
	UnitMetres Unit = "Mtrs"
)

// Field identifies a draft field in missing-field sets and clarification requests.
type Field string

const (
	FieldCustomerName Field = "customerName"
	FieldAddress      Field = "customerAddress"
	FieldTaxID        Field = "customerGstin"
	FieldItems        Field = "items"
	FieldGST          Field = "gst"
	FieldTransport    Field = "transport"
	FieldLoading      Field = "loadingCharges"
	FieldPayment      Field = "paymentTerms"
	FieldDelivery     Field = "deliveryTerms"
	FieldValidity     Field = "priceValidity"
)

const (
	DefaultGST   = 18.0
	NotSpecified = "Not specified"
	MinNameLen   = 2
)

type LineItem struct {
	Description string   `json:"description"`
	Quantity    float64  `json:"quantity"`
	Unit        Unit     `json:"unit"`
	Rate        *float64 `json:"rate,omitempty"` // per unit; nil until known

	Pieces       float64 `json:"pieces,omitempty"`
	LengthMetres float64 `json:"length_metres,omitempty"`
	KgPerMetre   float64 `json:"kg_per_metre,omitempty"`
	Section      string  `json:"section,omitempty"`
	RateInferred bool    `json:"rate_inferred,omitempty"`
}

// Amount is computed on read so it always reflects Quantity and Rate.
func (i LineItem) Amount() float64 {
	if i.Rate == nil || !finite(*i.Rate) || !finite(i.Quantity) {
		return 0
	}
	return round2(i.Quantity * *i.Rate)
}

func (i LineItem) HasRate() bool { return i.Rate != nil && finite(*i.Rate) && *i.Rate > 0 }

func Rate(v float64) *float64 { return &v }

type Metadata struct {
	CompletionPercentage int     `json:"completion_percentage"`
	MissingFields        []Field `json:"missing_fields"`
}

type Draft struct {
	CustomerName    string     `json:"customer_name"`
	CustomerAddress string     `json:"customer_address,omitempty"`
	CustomerTaxID   string     `json:"customer_gstin,omitempty"`
	Items           []LineItem `json:"items"`
	GSTPercent      float64    `json:"gst_percent"`
	Transport       string     `json:"transport"`
	Loading         string     `json:"loading"`
	Payment         string     `json:"payment"`
	Delivery        string     `json:"delivery"`
	Validity        string     `json:"validity"`
	Metadata        Metadata   `json:"metadata"`
}

// NewDraft returns the empty schema: no customer, no items, defaults everywhere else.
func NewDraft() Draft {
	d := Draft{
		Items:      []LineItem{},
		GSTPercent: DefaultGST,
		Transport:  NotSpecified,
		Loading:    NotSpecified,
		Payment:    NotSpecified,
		Delivery:   NotSpecified,
		Validity:   NotSpecified,
	}
	d.Refresh()
	return d
}

func (d Draft) Clone() Draft {
	out := d
	out.Items = make([]LineItem, len(d.Items))
	for i, it := range d.Items {
		if it.Rate != nil {
			it.Rate = Rate(*it.Rate)
		}
		out.Items[i] = it
	}
	out.Metadata.MissingFields = slices.Clone(d.Metadata.MissingFields)
	return out
}

// Refresh recomputes Metadata from the current field values.
func (d *Draft) Refresh() {
	var missing []Field
	filled := 0
	check := func(f Field, ok bool) {
		if ok {
			filled++
		} else {
			missing = append(missing, f)
		}
	}
	check(FieldCustomerName, len(strings.TrimSpace(d.CustomerName)) >= MinNameLen)
	check(FieldItems, len(d.Items) > 0)
	check(FieldGST, finite(d.GSTPercent))
	check(FieldTransport, isSet(d.Transport))
	check(FieldLoading, isSet(d.Loading))
	check(FieldPayment, isSet(d.Payment))
	check(FieldDelivery, isSet(d.Delivery))
	check(FieldValidity, isSet(d.Validity))

	d.Metadata = Metadata{
		CompletionPercentage: filled * 100 / 8,
		MissingFields:        missing,
	}
}

// HasRequired reports whether customer and at least one item are present.
func (d Draft) HasRequired() bool {
	return len(strings.TrimSpace(d.CustomerName)) >= MinNameLen && len(d.Items) > 0
}

// RequiredMissing lists the missing required fields in canonical order.
func (d Draft) RequiredMissing() []Field {
	var out []Field
	if len(strings.TrimSpace(d.CustomerName)) < MinNameLen {
		out = append(out, FieldCustomerName)
	}
	if len(d.Items) == 0 {
		out = append(out, FieldItems)
	}
	return out
}

func isSet(s string) bool {
	s = strings.TrimSpace(s)
	return s != "" && !strings.EqualFold(s, NotSpecified)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
