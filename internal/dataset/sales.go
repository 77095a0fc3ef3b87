package dataset

// SalesColumns names the header of each transaction role.
type SalesColumns struct {
	Region     string
	Segment    string
	Category   string
	Gender     string
	Amount     string
	Date       string
	DateLayout string
}

// DefaultSalesColumns matches the supermarket sales export.
func DefaultSalesColumns() SalesColumns {
	return SalesColumns{
		Region:     "City",
		Segment:    "Customer type",
		Category:   "Product line",
		Gender:     "Gender",
		Amount:     "Total",
		Date:       "Date",
		DateLayout: "1/2/2006",
	}
}

// Schema returns the transaction schema.
func (c SalesColumns) Schema() Schema {
	return NewSchema(
		Cat(c.Region),
		Cat(c.Segment),
		Cat(c.Category),
		Cat(c.Gender),
		Num(c.Amount),
		DateField(c.Date, c.DateLayout),
	)
}

// LoadSales loads the transaction table. Any coercion failure is fatal.
func LoadSales(path string, cols SalesColumns, opt Options) (*Table, error) {
	t, _, err := Load(path, cols.Schema(), Strict, opt)
	if err != nil {
		return nil, err
	}
	return t, nil
}
