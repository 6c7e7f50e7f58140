package service

import (
	"context"
	"fmt"

	"clubstake/models"
)

// computeClubRanking walks every club in ascending name order and ranks them
// by how much their total stake grew since the last recorded snapshot.
//
// Ties on growth break toward the larger total stake; clubs tied on both
// growth and total are all counted as winners. The returned list is ordered
// leaders first, with later-visited clubs ahead of earlier ones among equals.
//
// With record set, each club's current total is written back as the new
// snapshot; queries pass false so reads never shift the baseline.
func computeClubRanking(ctx context.Context, stakes StakeRepository, snapshots SnapshotRepository, record bool) (*models.ClubRanking, error) {
	clubs, err := stakes.ListClubs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list clubs: %w", err)
	}

	previous, err := snapshots.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stake snapshots: %w", err)
	}

	maxDelta := -models.MaxTokenSupply
	var maxTotal int64
	winners := 0

	ranking := &models.ClubRanking{}
	for _, clubName := range clubs {
		entries, err := stakes.ListByClub(ctx, clubName)
		if err != nil {
			return nil, fmt.Errorf("failed to get stakes for club %s: %w", clubName, err)
		}

		var total int64
		for _, entry := range entries {
			total += entry.StakedAmount
		}
		delta := total - previous[clubName]

		ranked := models.RankedClub{ClubName: clubName, TotalStake: total, StakeDelta: delta}
		switch {
		case delta > maxDelta:
			winners = 1
			ranking.Clubs = append([]models.RankedClub{ranked}, ranking.Clubs...)
			maxDelta = delta
			maxTotal = total
		case delta == maxDelta && total > maxTotal:
			winners = 1
			ranking.Clubs = append([]models.RankedClub{ranked}, ranking.Clubs...)
			maxTotal = total
		case delta == maxDelta && total == maxTotal:
			winners++
			ranking.Clubs = append([]models.RankedClub{ranked}, ranking.Clubs...)
		default:
			ranking.Clubs = append(ranking.Clubs, ranked)
		}

		if record {
			if err := snapshots.Save(ctx, clubName, total); err != nil {
				return nil, fmt.Errorf("failed to save stake snapshot for club %s: %w", clubName, err)
			}
		}
	}

	ranking.WinnerCount = winners
	return ranking, nil
}
