// Package snapshot loads market observations written by the upstream
// acquisition layer and converts them into domain values.
//
// Snapshots are YAML documents; JSON is accepted as the YAML subset it is.
// Fields that may be absent are pointers here and become domain.Optional.
package snapshot

import (
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/marketpulse/internal/domain"
	"gopkg.in/yaml.v3"
)

// ErrInvalidSnapshot marks a snapshot that parses but cannot be analyzed.
var ErrInvalidSnapshot = errors.New("invalid snapshot")

var timeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// File is the on-disk snapshot document.
type File struct {
	Market Market  `yaml:"market" json:"market"`
	Stocks []Stock `yaml:"stocks" json:"stocks"`
}

// Market market-wide section.
type Market struct {
	Stocks         []Observation `yaml:"stocks" json:"stocks"`
	CurrentVolume  float64       `yaml:"current_volume" json:"current_volume"`
	AverageVolume  *float64      `yaml:"average_volume" json:"average_volume"`
	PreviousVolume *float64      `yaml:"previous_volume" json:"previous_volume"`
	VolumeHistory  []float64     `yaml:"volume_history" json:"volume_history"`
}

// Observation one stock's trading figures in the market section.
type Observation struct {
	Symbol        string   `yaml:"symbol" json:"symbol"`
	Volume        float64  `yaml:"volume" json:"volume"`
	Change        float64  `yaml:"change" json:"change"`
	AverageVolume *float64 `yaml:"average_volume" json:"average_volume"`
}

// Candle daily OHLCV bar.
type Candle struct {
	// Time accepts RFC 3339 timestamps or plain dates
	Time   string          `yaml:"time" json:"time"`
	Open   decimal.Decimal `yaml:"open" json:"open"`
	High   decimal.Decimal `yaml:"high" json:"high"`
	Low    decimal.Decimal `yaml:"low" json:"low"`
	Close  decimal.Decimal `yaml:"close" json:"close"`
	Volume decimal.Decimal `yaml:"volume" json:"volume"`
}

// SmartMoney investor-flow section.
type SmartMoney struct {
	ForeignNet       *float64 `yaml:"foreign_net" json:"foreign_net"`
	InstitutionNet   *float64 `yaml:"institution_net" json:"institution_net"`
	Score            *float64 `yaml:"score" json:"score"`
	CumulativeFlow5D *float64 `yaml:"cumulative_flow_5d" json:"cumulative_flow_5d"`
}

// Sector sector performance section.
type Sector struct {
	SectorChange *float64 `yaml:"sector_change" json:"sector_change"`
	LoserRank    *int     `yaml:"loser_rank" json:"loser_rank"`
	InRankings   *bool    `yaml:"in_rankings" json:"in_rankings"`
}

// Technical precomputed indicators; candles fill whatever is missing.
type Technical struct {
	Return5D    *float64         `yaml:"return_5d" json:"return_5d"`
	Return20D   *float64         `yaml:"return_20d" json:"return_20d"`
	Position52W *float64         `yaml:"position_52w" json:"position_52w"`
	RSI14       *float64         `yaml:"rsi14" json:"rsi14"`
	EMA20       *decimal.Decimal `yaml:"ema20" json:"ema20"`
	EMA50       *decimal.Decimal `yaml:"ema50" json:"ema50"`
}

// Valuation P/E section.
type Valuation struct {
	PE           *float64 `yaml:"pe" json:"pe"`
	SectorPE     *float64 `yaml:"sector_pe" json:"sector_pe"`
	HistoricalPE *float64 `yaml:"historical_pe" json:"historical_pe"`
}

// Stock per-stock section.
type Stock struct {
	Symbol         string           `yaml:"symbol" json:"symbol"`
	Volume         float64          `yaml:"volume" json:"volume"`
	AverageVolume  *float64         `yaml:"average_volume" json:"average_volume"`
	Candles        []Candle         `yaml:"candles" json:"candles"`
	SmartMoney     SmartMoney       `yaml:"smart_money" json:"smart_money"`
	Sector         Sector           `yaml:"sector" json:"sector"`
	Technical      Technical        `yaml:"technical" json:"technical"`
	Valuation      Valuation        `yaml:"valuation" json:"valuation"`
	TargetEstimate *decimal.Decimal `yaml:"target_estimate" json:"target_estimate"`
	Decision       *string          `yaml:"decision" json:"decision"`
}

// Snapshot parsed, validated observations.
type Snapshot struct {
	Market domain.MarketSnapshot
	Stocks []domain.StockSnapshot
}

// Load reads and converts a snapshot file.
func Load(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, errors.Wrapf(err, "failed to read snapshot %s", path)
	}

	snap, err := Parse(data)
	if err != nil {
		return Snapshot{}, errors.Wrapf(err, "snapshot %s", path)
	}
	return snap, nil
}

// Parse decodes and converts a snapshot document.
func Parse(data []byte) (Snapshot, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Snapshot{}, errors.Wrap(err, "failed to decode snapshot")
	}
	return f.ToDomain()
}

// ToDomain converts the document into domain snapshots.
func (f File) ToDomain() (Snapshot, error) {
	market := domain.MarketSnapshot{
		Stocks:         make([]domain.StockObservation, 0, len(f.Market.Stocks)),
		CurrentVolume:  f.Market.CurrentVolume,
		AverageVolume:  domain.FromPtr(f.Market.AverageVolume),
		PreviousVolume: domain.FromPtr(f.Market.PreviousVolume),
		VolumeHistory:  f.Market.VolumeHistory,
	}
	for i, o := range f.Market.Stocks {
		if strings.TrimSpace(o.Symbol) == "" {
			return Snapshot{}, errors.Wrapf(ErrInvalidSnapshot, "market stock #%d has no symbol", i)
		}
		market.Stocks = append(market.Stocks, domain.StockObservation{
			Symbol:        o.Symbol,
			Volume:        o.Volume,
			Change:        o.Change,
			AverageVolume: domain.FromPtr(o.AverageVolume),
		})
	}

	stocks := make([]domain.StockSnapshot, 0, len(f.Stocks))
	for _, s := range f.Stocks {
		stock, err := s.toDomain()
		if err != nil {
			return Snapshot{}, err
		}
		stocks = append(stocks, stock)
	}

	return Snapshot{Market: market, Stocks: stocks}, nil
}

func (s Stock) toDomain() (domain.StockSnapshot, error) {
	if strings.TrimSpace(s.Symbol) == "" {
		return domain.StockSnapshot{}, errors.Wrap(ErrInvalidSnapshot, "stock has no symbol")
	}

	candles, err := convertCandles(s.Candles)
	if err != nil {
		return domain.StockSnapshot{}, errors.Wrapf(err, "stock %s", s.Symbol)
	}

	decision := domain.None[domain.Decision]()
	if s.Decision != nil {
		d := domain.Decision(strings.ToUpper(strings.TrimSpace(*s.Decision)))
		if !d.IsValid() {
			return domain.StockSnapshot{}, errors.Wrapf(ErrInvalidSnapshot, "stock %s: unknown decision %q", s.Symbol, *s.Decision)
		}
		decision = domain.Some(d)
	}

	return domain.StockSnapshot{
		Symbol:        s.Symbol,
		Volume:        s.Volume,
		AverageVolume: domain.FromPtr(s.AverageVolume),
		Candles:       candles,
		SmartMoney: domain.SmartMoneySummary{
			ForeignNet:       domain.FromPtr(s.SmartMoney.ForeignNet),
			InstitutionNet:   domain.FromPtr(s.SmartMoney.InstitutionNet),
			Score:            domain.FromPtr(s.SmartMoney.Score),
			CumulativeFlow5D: domain.FromPtr(s.SmartMoney.CumulativeFlow5D),
		},
		Sector: domain.SectorSummary{
			SectorChange: domain.FromPtr(s.Sector.SectorChange),
			LoserRank:    domain.FromPtr(s.Sector.LoserRank),
			InRankings:   domain.FromPtr(s.Sector.InRankings),
		},
		Technical: domain.TechnicalSummary{
			Return5D:    domain.FromPtr(s.Technical.Return5D),
			Return20D:   domain.FromPtr(s.Technical.Return20D),
			Position52W: domain.FromPtr(s.Technical.Position52W),
			RSI14:       domain.FromPtr(s.Technical.RSI14),
			EMA20:       domain.FromPtr(s.Technical.EMA20),
			EMA50:       domain.FromPtr(s.Technical.EMA50),
		},
		Valuation: domain.ValuationSummary{
			PE:           domain.FromPtr(s.Valuation.PE),
			SectorPE:     domain.FromPtr(s.Valuation.SectorPE),
			HistoricalPE: domain.FromPtr(s.Valuation.HistoricalPE),
		},
		TargetEstimate: domain.FromPtr(s.TargetEstimate),
		Decision:       decision,
	}, nil
}

// convertCandles parses bar times; each bar closes when the next one opens,
// the last one a day after it opened.
func convertCandles(in []Candle) ([]domain.MarketCandle, error) {
	candles := make([]domain.MarketCandle, len(in))
	for i, c := range in {
		openTime, err := parseTime(c.Time)
		if err != nil {
			return nil, errors.Wrapf(err, "candle #%d", i)
		}
		candles[i] = domain.MarketCandle{
			OpenTime: openTime,
			Open:     c.Open,
			High:     c.High,
			Low:      c.Low,
			Close:    c.Close,
			Volume:   c.Volume,
		}
	}
	for i := range candles {
		if i+1 < len(candles) {
			candles[i].CloseTime = candles[i+1].OpenTime
		} else {
			candles[i].CloseTime = candles[i].OpenTime.AddDate(0, 0, 1)
		}
	}
	return candles, nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Wrapf(ErrInvalidSnapshot, "unparseable time %q", s)
}
