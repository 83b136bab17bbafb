package models

// Payment status values, kept in French as displayed on the roster.
const (
	StatusPaid    = "Payé"
	StatusPartial = "A moitié payé"
	StatusUnpaid  = "Non payé"
	StatusNA      = "N/A"
)

// PricingCheck statuses.
const (
	PriceOK      = "ok"
	PriceOver    = "over"
	PriceUnder   = "under"
	PriceUnknown = "unknown"
)

// MoneyCell is the interpretation of one money-bearing cell. Amount and
// Text are mutually exclusive as the primary reading; IsComment marks
// cells that mixed digits and prose ("90 en liquide").
type MoneyCell struct {
	Amount    float64 `json:"amount"`
	Text      string  `json:"text,omitempty"`
	IsComment bool    `json:"isComment,omitempty"`
	Raw       string  `json:"raw"`
}

// PricingCheck compares what a student actually paid against the tariff
// table (or, for "carte" discounts, their own declared due amount).
type PricingCheck struct {
	Status  string  `json:"status"`
	Target  float64 `json:"target"`
	Diff    float64 `json:"diff"`
	Message string  `json:"msg"`
}

// Student is the derived record for one roster row. It is rebuilt from
// scratch on every change and never mutated field by field, so it can
// never drift from the row it was derived from. ID is the originating
// row index and stays stable for the life of the row.
type Student struct {
	ID       int  `json:"id"`
	HasFiche bool `json:"hasFiche"`
	Active   bool `json:"active"`

	Name        string `json:"name"`
	Courses     string `json:"courses"`
	NbHours     string `json:"nbHours"`
	Reduction   string `json:"reduction"`
	PaymentType string `json:"paymentType"`

	AmountDue        float64   `json:"amountDue"`
	AmountDueDetails MoneyCell `json:"amountDueDetails"`

	Paid1        float64   `json:"paid1"`
	Paid1Details MoneyCell `json:"paid1Details"`
	Date1        string    `json:"date1"`

	Paid2        float64   `json:"paid2"`
	Paid2Details MoneyCell `json:"paid2Details"`
	Date2        string    `json:"date2"`

	TelStudent  string `json:"telStudent"`
	ParentsName string `json:"parentsName"`
	TelParents  string `json:"telParents"`
	MailStudent string `json:"mailStudent"`
	MailParents string `json:"mailParents"`
	Address     string `json:"address"`
	PostalCode  string `json:"cp"`
	City        string `json:"city"`
	BirthDate   string `json:"dob"`
	BirthPlace  string `json:"pob"`
	Other       string `json:"other"`
	Sex         string `json:"sex"`

	AmountPaid   float64      `json:"amountPaid"`
	Remaining    float64      `json:"remaining"`
	Status       string       `json:"status"`
	PricingCheck PricingCheck `json:"pricingCheck"`
}

// Stats are the roster-wide counters shown in the header bar.
type Stats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Paid    int `json:"paid"`
	Unpaid  int `json:"unpaid"`
	Partial int `json:"partial"`
}
