package restserver

// IndexRow is one period of an index table. Missing values are null.
type IndexRow struct {
	Period        string   `json:"period"`
	Year          int      `json:"year"`
	Month         int      `json:"month,omitempty"`
	Season        string   `json:"season,omitempty"`
	Precipitation *float64 `json:"precipitation"`
	Value         *float64 `json:"value"`
	Class         string   `json:"class"`

	// Composite Index only
	SPI1          *float64 `json:"spi_1month,omitempty"`
	SPI3          *float64 `json:"spi_3month,omitempty"`
	MoistureIndex *float64 `json:"moisture_index,omitempty"`
}

type IndexTableResponse struct {
	Station   string     `json:"station"`
	Index     string     `json:"index"`
	Frequency string     `json:"frequency"`
	RunID     string     `json:"run_id,omitempty"`
	Rows      []IndexRow `json:"rows"`
}

type ComparisonRow struct {
	Period        string   `json:"period"`
	Precipitation *float64 `json:"precipitation"`
	Value         *float64 `json:"value"`
	Class         string   `json:"class"`
	OtherValue    *float64 `json:"other_value"`
	OtherClass    string   `json:"other_class"`
	Difference    *float64 `json:"difference"`
	Agree         *bool    `json:"agree"`
}

type ComparisonResponse struct {
	Station       string          `json:"station"`
	Index         string          `json:"index"`
	Other         string          `json:"other"`
	AgreementRate *float64        `json:"agreement_rate"`
	Rows          []ComparisonRow `json:"rows"`
}

type SummaryResponse struct {
	Station        string         `json:"station"`
	Index          string         `json:"index"`
	Frequency      string         `json:"frequency"`
	Periods        int            `json:"periods"`
	Defined        int            `json:"defined"`
	Mean           *float64       `json:"mean"`
	Min            *float64       `json:"min"`
	Max            *float64       `json:"max"`
	StdDev         *float64       `json:"stddev"`
	ClassCounts    map[string]int `json:"class_counts"`
	DroughtPeriods int            `json:"drought_periods"`
	SevereDrought  []IndexRow     `json:"severe_drought"`
}

type HealthResponse struct {
	Status  string `json:"status"`
	Station string `json:"station"`
	Months  int    `json:"months"`
}
