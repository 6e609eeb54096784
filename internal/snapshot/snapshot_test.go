package snapshot

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/marketpulse/internal/domain"
)

func TestLoad(t *testing.T) {
	snap, err := Load(filepath.Join("testdata", "snapshot.yaml"))
	require.NoError(t, err)

	avg, ok := snap.Market.AverageVolume.Get()
	require.True(t, ok)
	assert.Equal(t, 1_000_000.0, avg)
	assert.False(t, snap.Market.PreviousVolume.IsSome())
	assert.Len(t, snap.Market.VolumeHistory, 5)
	require.Len(t, snap.Market.Stocks, 2)
	assert.True(t, snap.Market.Stocks[0].AverageVolume.IsSome())
	assert.False(t, snap.Market.Stocks[1].AverageVolume.IsSome())
	assert.Equal(t, -1.2, snap.Market.Stocks[1].Change)

	require.Len(t, snap.Stocks, 1)
	stock := snap.Stocks[0]
	assert.Equal(t, "AAA", stock.Symbol)
	require.Len(t, stock.Candles, 2)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), stock.Candles[0].OpenTime)
	assert.Equal(t, stock.Candles[1].OpenTime, stock.Candles[0].CloseTime)
	assert.True(t, stock.Candles[0].High.Equal(decimal.RequireFromString("102.5")))
	assert.True(t, stock.Candles[1].Close.Equal(decimal.RequireFromString("103.25")))

	foreign, ok := stock.SmartMoney.ForeignNet.Get()
	require.True(t, ok)
	assert.Equal(t, -12_000_000_000.0, foreign)
	assert.False(t, stock.SmartMoney.InstitutionNet.IsSome())

	rank, ok := stock.Sector.LoserRank.Get()
	require.True(t, ok)
	assert.Equal(t, 4, rank)
	assert.Equal(t, true, stock.Sector.InRankings.OrElse(false))
	assert.False(t, stock.Sector.SectorChange.IsSome())

	assert.Equal(t, 72.5, stock.Technical.RSI14.OrElse(0))
	assert.False(t, stock.Valuation.HistoricalPE.IsSome())

	target, ok := stock.TargetEstimate.Get()
	require.True(t, ok)
	assert.True(t, target.Equal(decimal.NewFromInt(130)))
	assert.Equal(t, domain.DecisionBuy, stock.Decision.OrElse(""))
}

func TestParse_JSON(t *testing.T) {
	doc := `{
		"market": {"current_volume": 10, "average_volume": null, "stocks": []},
		"stocks": [{
			"symbol": "ZZZ",
			"volume": 5,
			"candles": [{"time": "2024-05-01T09:00:00Z", "open": "1", "high": "2", "low": "0.5", "close": "1.5", "volume": "10"}],
			"technical": {"ema20": "1.25"},
			"decision": "PASS"
		}]
	}`

	snap, err := Parse([]byte(doc))
	require.NoError(t, err)
	assert.False(t, snap.Market.AverageVolume.IsSome())
	require.Len(t, snap.Stocks, 1)

	stock := snap.Stocks[0]
	assert.Equal(t, time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC), stock.Candles[0].OpenTime)
	assert.Equal(t, time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC), stock.Candles[0].CloseTime)
	ema, ok := stock.Technical.EMA20.Get()
	require.True(t, ok)
	assert.True(t, ema.Equal(decimal.RequireFromString("1.25")))
	assert.Equal(t, domain.DecisionPass, stock.Decision.OrElse(""))
	assert.False(t, stock.TargetEstimate.IsSome())
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{name: "unknown decision", doc: "stocks: [{symbol: A, decision: SELL}]"},
		{name: "missing stock symbol", doc: "stocks: [{volume: 1}]"},
		{name: "missing market symbol", doc: "market: {stocks: [{volume: 1}]}"},
		{name: "bad candle time", doc: "stocks: [{symbol: A, candles: [{time: yesterday}]}]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.ErrorIs(t, err, ErrInvalidSnapshot)
		})
	}
}

func TestParse_Malformed(t *testing.T) {
	_, err := Parse([]byte("market: [unclosed"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidSnapshot)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}
