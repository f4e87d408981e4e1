// Package catalogsvc - Test các phép tính thuần trên log quan sát giá.
package catalogsvc

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogdto "price_pulse/internal/api/catalog/dto"
	catalogmodels "price_pulse/internal/api/catalog/models"
)

func TestPeriodFloor(t *testing.T) {
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.AddDate(0, -1, 0).UnixMilli(), PeriodFloor(PeriodOneMonth, now))
	assert.Equal(t, now.AddDate(0, -3, 0).UnixMilli(), PeriodFloor(PeriodThreeMonths, now))
	assert.Equal(t, now.AddDate(0, -6, 0).UnixMilli(), PeriodFloor(PeriodSixMonths, now))
	assert.Equal(t, now.AddDate(-1, 0, 0).UnixMilli(), PeriodFloor(PeriodOneYear, now))

	// "all" là mốc epoch, không phải bỏ filter
	assert.Equal(t, int64(0), PeriodFloor(PeriodAll, now))

	// Period rỗng hoặc không hợp lệ dùng mặc định 6 tháng
	assert.Equal(t, PeriodFloor(DefaultPeriod, now), PeriodFloor("", now))
	assert.Equal(t, PeriodFloor(DefaultPeriod, now), PeriodFloor("2w", now))

	// Khoảng dài hơn phải có mốc thấp hơn
	assert.Less(t, PeriodFloor(PeriodOneYear, now), PeriodFloor(PeriodSixMonths, now))
	assert.Less(t, PeriodFloor(PeriodSixMonths, now), PeriodFloor(PeriodThreeMonths, now))
	assert.Less(t, PeriodFloor(PeriodThreeMonths, now), PeriodFloor(PeriodOneMonth, now))
}

func TestReduceLatestPerStore(t *testing.T) {
	records := []catalogmodels.PriceRecord{
		{StoreName: "Amazon", Price: 100, Timestamp: 10},
		{StoreName: "Amazon", Price: 90, Timestamp: 30},
		{StoreName: "Amazon", Price: 110, Timestamp: 20},
		{StoreName: "Aptronix", StoreBranch: "Rama Talkies", Price: 95, Timestamp: 25},
		// Cùng tên nhưng khác chi nhánh là cửa hàng khác
		{StoreName: "Aptronix", StoreBranch: "CMR Central", Price: 97, Timestamp: 26},
	}

	latest := reduceLatestPerStore(records)
	require.Len(t, latest, 3)

	// Mỗi cửa hàng giữ đúng bản ghi có timestamp lớn nhất
	assert.Equal(t, 90.0, latest[0].Price, "Amazon phải giữ bản ghi timestamp 30")
	assert.Equal(t, int64(30), latest[0].Timestamp)
	assert.Equal(t, "Rama Talkies", latest[1].StoreBranch)
	assert.Equal(t, "CMR Central", latest[2].StoreBranch)
}

func TestReduceLatestPerStore_TieKeepsFirstSeen(t *testing.T) {
	// Timestamp bằng nhau: bản ghi gặp trước thắng, thứ tự đầu ra ổn định theo input
	records := []catalogmodels.PriceRecord{
		{StoreName: "Flipkart", Price: 500, Timestamp: 10},
		{StoreName: "Flipkart", Price: 600, Timestamp: 10},
	}

	latest := reduceLatestPerStore(records)
	require.Len(t, latest, 1)
	assert.Equal(t, 500.0, latest[0].Price)
}

func TestReduceLatestPerStore_Empty(t *testing.T) {
	latest := reduceLatestPerStore(nil)
	assert.NotNil(t, latest)
	assert.Empty(t, latest)
}

func TestLowestOf(t *testing.T) {
	assert.Nil(t, LowestOf(nil), "danh sách rỗng phải trả về nil, không phải giá 0")
	assert.Nil(t, LowestOf([]catalogdto.StorePrice{}))

	prices := []catalogdto.StorePrice{
		{StoreName: "Amazon", Price: 131900},
		{StoreName: "Aptronix", StoreBranch: "Rama Talkies", Price: 128000},
		{StoreName: "Flipkart", Price: 129999},
	}

	best := LowestOf(prices)
	require.NotNil(t, best)
	assert.Equal(t, "Aptronix", best.StoreName)
	assert.Equal(t, 128000.0, best.Price)
}

func TestPeriodFloor_WindowFilterSuperset(t *testing.T) {
	// Lọc cùng một tập bản ghi qua các floor: cửa sổ dài hơn phải là
	// tập cha của cửa sổ ngắn hơn
	now := time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	timestamps := []int64{
		now.AddDate(0, 0, -7).UnixMilli(),  // trong cửa sổ 1m
		now.AddDate(0, -2, 0).UnixMilli(),  // trong cửa sổ 3m
		now.AddDate(0, -5, 0).UnixMilli(),  // trong cửa sổ 6m
		now.AddDate(0, -10, 0).UnixMilli(), // trong cửa sổ 1y
		now.AddDate(-2, 0, 0).UnixMilli(),  // chỉ trong cửa sổ all
	}

	window := func(period string) []int64 {
		floor := PeriodFloor(period, now)
		kept := []int64{}
		for _, ts := range timestamps {
			if ts >= floor {
				kept = append(kept, ts)
			}
		}
		return kept
	}

	periods := []string{PeriodOneMonth, PeriodThreeMonths, PeriodSixMonths, PeriodOneYear, PeriodAll}
	prev := window(periods[0])
	require.Len(t, prev, 1)
	for _, period := range periods[1:] {
		cur := window(period)
		assert.Subset(t, cur, prev, "cửa sổ %s phải chứa mọi điểm của cửa sổ ngắn hơn", period)
		prev = cur
	}
	assert.Len(t, prev, len(timestamps), "cửa sổ all phải giữ toàn bộ bản ghi")
}

func TestFixtureHistory_AllContainsEveryShorterWindow(t *testing.T) {
	id := "iphone-15-pro-256"
	all := FixtureHistory(id, PeriodAll)
	require.NotEmpty(t, all)

	for _, period := range []string{PeriodOneMonth, PeriodThreeMonths, PeriodSixMonths, PeriodOneYear} {
		for _, point := range FixtureHistory(id, period) {
			assert.Contains(t, all, point, "điểm trong cửa sổ %s phải nằm trong cửa sổ all", period)
		}
	}
}

func TestLowestOf_ZeroPriceIsStillAPrice(t *testing.T) {
	// Giá 0 là một giá thật, khác hẳn với "không có giá" (nil)
	prices := []catalogdto.StorePrice{
		{StoreName: "Amazon", Price: 0},
		{StoreName: "Flipkart", Price: 100},
	}
	best := LowestOf(prices)
	require.NotNil(t, best)
	assert.Equal(t, 0.0, best.Price)
}
