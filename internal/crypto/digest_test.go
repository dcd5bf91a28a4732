package crypto

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/udisondev/hippodrome/internal/model"
)

func testRankings() []model.RaceOutcome {
	return []model.RaceOutcome{
		{Position: 1, Horse: &model.Horse{ID: 7}, FinishTime: 1.21},
		{Position: 2, Horse: &model.Horse{ID: 3}, FinishTime: 1.47},
	}
}

func TestResultDigest_Stable(t *testing.T) {
	d1 := ResultDigest(1, 1200, testRankings())
	d2 := ResultDigest(1, 1200, testRankings())

	assert.Equal(t, d1, d2)
	assert.Len(t, d1, 64) // 32 bytes hex
}

func TestResultDigest_SensitiveToContent(t *testing.T) {
	base := ResultDigest(1, 1200, testRankings())

	changed := testRankings()
	changed[1].FinishTime = 1.48

	assert.NotEqual(t, base, ResultDigest(2, 1200, testRankings()), "round number")
	assert.NotEqual(t, base, ResultDigest(1, 1400, testRankings()), "distance")
	assert.NotEqual(t, base, ResultDigest(1, 1200, changed), "finish time")
	assert.NotEqual(t, base, ResultDigest(1, 1200, testRankings()[:1]), "ranking count")
}

func TestVerifyResult(t *testing.T) {
	r := model.HistoricalResult{RoundNumber: 4, Distance: 1800, Rankings: testRankings()}
	r.Digest = ResultDigest(r.RoundNumber, r.Distance, r.Rankings)
	assert.True(t, VerifyResult(r))

	r.Rankings[0].Horse = &model.Horse{ID: 9}
	assert.False(t, VerifyResult(r))
}
