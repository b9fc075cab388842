package features

import "fmt"

// Config enumerates the indicators to compute and their lookback windows,
// in sessions. The zero value is not usable; start from DefaultConfig.
type Config struct {
	SMAWindows        []int `yaml:"sma_windows" json:"sma_windows"`
	MomentumWindows   []int `yaml:"momentum_windows" json:"momentum_windows"`
	VolatilityWindows []int `yaml:"volatility_windows" json:"volatility_windows"`
	RSIWindow         int   `yaml:"rsi_window" json:"rsi_window"`
	VolumeZWindow     int   `yaml:"volume_z_window" json:"volume_z_window"`

	// IncludeIntraday adds the high/low range and open/close change of the
	// current session.
	IncludeIntraday bool `yaml:"include_intraday" json:"include_intraday"`
}

// DefaultConfig mirrors the window set used in the original research
// notebooks: short, monthly and quarterly lookbacks.
func DefaultConfig() Config {
	return Config{
		SMAWindows:        []int{10, 21, 63},
		MomentumWindows:   []int{5, 21, 63},
		VolatilityWindows: []int{10, 21, 63},
		RSIWindow:         14,
		VolumeZWindow:     63,
		IncludeIntraday:   true,
	}
}

// Validate checks window sanity.
func (c Config) Validate() error {
	for _, w := range append(append(append([]int{}, c.SMAWindows...), c.MomentumWindows...), c.VolatilityWindows...) {
		if w < 2 {
			return fmt.Errorf("feature window must be >= 2 sessions, got %d", w)
		}
	}
	if c.RSIWindow < 2 {
		return fmt.Errorf("rsi_window must be >= 2 sessions, got %d", c.RSIWindow)
	}
	if c.VolumeZWindow < 2 {
		return fmt.Errorf("volume_z_window must be >= 2 sessions, got %d", c.VolumeZWindow)
	}
	return nil
}

// MaxLookback returns the warm-up length: the session index of the first
// row that every configured indicator can be computed for.
func (c Config) MaxLookback() int {
	max := c.RSIWindow
	for _, w := range c.SMAWindows {
		if w > max {
			max = w
		}
	}
	for _, w := range c.MomentumWindows {
		if w > max {
			max = w
		}
	}
	for _, w := range c.VolatilityWindows {
		if w > max {
			max = w
		}
	}
	if c.VolumeZWindow > max {
		max = c.VolumeZWindow
	}
	return max
}

// Names returns the feature vocabulary in a fixed, deterministic order.
// Dataset rows are vectorized in this order.
func (c Config) Names() []string {
	names := []string{"ret_1"}
	for _, w := range c.SMAWindows {
		names = append(names, fmt.Sprintf("price_to_sma_%d", w))
	}
	for _, w := range c.MomentumWindows {
		names = append(names, fmt.Sprintf("mom_%d", w))
	}
	for _, w := range c.VolatilityWindows {
		names = append(names, fmt.Sprintf("vol_%d", w))
	}
	names = append(names, fmt.Sprintf("rsi_%d", c.RSIWindow))
	names = append(names, fmt.Sprintf("volume_z_%d", c.VolumeZWindow))
	if c.IncludeIntraday {
		names = append(names, "hl_range", "oc_change")
	}
	return names
}
