package pipeline

// Summary is the JSON run report written by --report.
type Summary struct {
	Order         []int    `json:"order"`
	Rows          int      `json:"rows"`
	Paired        int      `json:"paired"`
	Mode          string   `json:"mode"`
	Seed          int64    `json:"seed"`
	PairSeeds     [2]int64 `json:"pair_seeds"`
	Realigned     int      `json:"realigned"`
	Output        string   `json:"output"`
	RealignOutput string   `json:"realign_output,omitempty"`
}

// Summary describes r as produced under cfg.
func (r *Result) Summary(cfg Config) Summary {
	s := Summary{
		Order:         r.Order,
		Mode:          cfg.Mode.String(),
		Seed:          cfg.Seed,
		PairSeeds:     [2]int64{cfg.PairSeed1, cfg.PairSeed2},
		Realigned:     r.Aligned,
		Output:        r.Output,
		RealignOutput: r.RealignOutput,
	}
	if r.Combined != nil {
		s.Rows = r.Combined.Len()
		s.Paired = max(s.Rows-1, 0)
	}
	return s
}
