package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shfb-analytics/accessmap/internal/model"
)

func ranked(id string, score float64) model.JoinedRegion {
	return model.JoinedRegion{RegionID: id, CountyLabel: "Forsyth", AccessScore: score}
}

func TestTopN(t *testing.T) {
	regions := []model.JoinedRegion{
		ranked("37001", 1.0),
		ranked("37003", 3.456),
		ranked("37005", 2.0),
		ranked("37007", 2.0),
	}

	top := TopN(regions, 2)
	assert.Equal(t, "37003", top[0].RegionID)
	assert.Equal(t, 3.46, top[0].AccessScore, "rounded to 2 decimals for display")
	assert.Equal(t, "37005", top[1].RegionID, "score tie breaks by ascending id")
}

func TestBottomN(t *testing.T) {
	regions := []model.JoinedRegion{
		ranked("37001", 1.0),
		ranked("37003", 3.0),
		ranked("37005", 0.0),
	}

	bottom := BottomN(regions, 2)
	assert.Equal(t, "37005", bottom[0].RegionID)
	assert.Equal(t, "37001", bottom[1].RegionID)
}

func TestRankNLargerThanInput(t *testing.T) {
	regions := []model.JoinedRegion{ranked("37001", 1.0)}
	assert.Len(t, TopN(regions, 10), 1)
	assert.Len(t, BottomN(regions, 10), 1)
}
