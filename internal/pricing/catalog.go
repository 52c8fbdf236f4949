package pricing

// Entry is an immutable catalog row. Prices are in minor units (cents).
type Entry struct {
	SKU        string
	Name       string
	PriceCents int64
}

type Catalog struct {
	m map[string]Entry
}

func NewCatalog() *Catalog {
	c := &Catalog{m: map[string]Entry{}}
	for _, e := range []Entry{
		{SKU: "INTERNET", Name: "Internet Plan", PriceCents: 4999},
		{SKU: "TV", Name: "TV Package", PriceCents: 2999},
		{SKU: "MOBILE", Name: "Mobile Plan", PriceCents: 3999},
		{SKU: "PHONE123", Name: "Smartphone", PriceCents: 99999},
		{SKU: "MODEM001", Name: "Modem", PriceCents: 12999},
		{SKU: "SIMCARD", Name: "SIM Card", PriceCents: 999},
		{SKU: "INTERNET_PACK", Name: "Internet Pack", PriceCents: 5999},
		{SKU: "PLAN_X", Name: "Data Plan X", PriceCents: 4999},
	} {
		c.m[e.SKU] = e
	}
	return c
}

func (c *Catalog) Get(sku string) (Entry, bool) {
	e, ok := c.m[sku]
	return e, ok
}
