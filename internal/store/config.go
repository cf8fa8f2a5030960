package store

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Scrape struct {
		ChannelURL    string `yaml:"channel_url"`
		VideoLimit    int    `yaml:"video_limit"`
		VideoListCSV  string `yaml:"video_list_csv"`
		MetadataCSV   string `yaml:"metadata_csv"`
		TranscriptDir string `yaml:"transcript_dir"`
	} `yaml:"scrape"`
	LLM struct {
		Provider    string  `yaml:"provider"` // OPENAI or CLAUDE
		Model       string  `yaml:"model"`
		MaxTokens   int     `yaml:"max_tokens"`
		Temperature float32 `yaml:"temperature"`
		ChunkSize   int     `yaml:"chunk_size"` // companies per ticker-mapping request
	} `yaml:"llm"`
	Extract struct {
		ExtractedDir string `yaml:"extracted_dir"`
		MentionsCSV  string `yaml:"mentions_csv"`
		MissingJSON  string `yaml:"missing_json"`
	} `yaml:"extract"`
	Prices struct {
		DBPath       string `yaml:"db_path"`
		ChunkSize    int    `yaml:"chunk_size"` // tickers per download batch
		StartDate    string `yaml:"start_date"` // 2006-01-02
		EndDate      string `yaml:"end_date"`
		PauseSeconds int    `yaml:"pause_seconds"`
		ReverseLUT   string `yaml:"reverse_lut"`
		ProxyURL     string `yaml:"proxy_url"`
		TimeoutSecs  int    `yaml:"timeout_seconds"`
	} `yaml:"prices"`
	Backtest struct {
		Offsets     []int  `yaml:"offsets"`  // forward day offsets, e.g. [1, 7, 14, 30]
		MinDate     int    `yaml:"min_date"` // YYYYMMDD, exclusive lower bound
		MaxDate     int    `yaml:"max_date"` // YYYYMMDD, exclusive upper bound
		ReturnsJSON string `yaml:"returns_json"`
		ReturnsCSV  string `yaml:"returns_csv"`
		ReportCSV   string `yaml:"report_csv"`
	} `yaml:"backtest"`
}

func (c *Config) Validate() error {
	if c.LLM.Provider != "OPENAI" && c.LLM.Provider != "CLAUDE" {
		return fmt.Errorf("invalid llm.provider '%s': must be 'OPENAI' or 'CLAUDE'", c.LLM.Provider)
	}
	if len(c.Backtest.Offsets) == 0 {
		return errors.New("backtest.offsets cannot be empty")
	}
	for _, d := range c.Backtest.Offsets {
		if d < 0 {
			return fmt.Errorf("backtest.offsets must be non-negative, got %d", d)
		}
	}
	if c.Prices.ChunkSize <= 0 {
		return fmt.Errorf("prices.chunk_size must be positive, got %d", c.Prices.ChunkSize)
	}
	return nil
}

func LoadConfig(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, err
	}

	if c.LLM.Provider == "" {
		c.LLM.Provider = "OPENAI"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = "gpt-4.1-mini"
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 2000
	}
	if c.LLM.ChunkSize == 0 {
		c.LLM.ChunkSize = 20
	}
	if c.Prices.ChunkSize == 0 {
		c.Prices.ChunkSize = 20
	}
	if c.Prices.TimeoutSecs == 0 {
		c.Prices.TimeoutSecs = 30
	}
	if c.Prices.DBPath == "" {
		c.Prices.DBPath = "data/prices.db"
	}
	if len(c.Backtest.Offsets) == 0 {
		c.Backtest.Offsets = []int{1, 7, 14, 30}
	}
	if c.Backtest.ReturnsJSON == "" {
		c.Backtest.ReturnsJSON = "output/returns.json"
	}
	if c.Backtest.ReturnsCSV == "" {
		c.Backtest.ReturnsCSV = "output/returns.csv"
	}
	if c.Backtest.ReportCSV == "" {
		c.Backtest.ReportCSV = "output/report.csv"
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &c, nil
}
