// Package matching holds the pure compatibility scorer used to order
// candidate lists. It never gates candidate inclusion or match creation.
package matching

import "github.com/MaekawaAo0604/muscle-SNS/internal/models"

// Score computes the compatibility of two users as an integer in [0,100].
// Deterministic and side-effect free.
//
// Weighted components, each clamped to >= 0 before summing:
//   - age proximity:        max(0, 20 - 2*|ageA-ageB|), 0 if either unknown
//   - shared gyms:          15 per common gym, uncapped before the final clamp
//   - experience proximity: max(0, 20 - 3*|expA-expB|), missing treated as 0
//   - frequency proximity:  max(0, 15 - 2*|freqA-freqB|), missing treated as 0
//   - base constant:        15
func Score(a, b *models.User) int {
	score := 0

	if a.Age != nil && b.Age != nil {
		score += clampZero(20 - 2*abs(*a.Age-*b.Age))
	}

	score += 15 * sharedGyms(a, b)

	expA, freqA := trainingStats(a)
	expB, freqB := trainingStats(b)
	score += clampZero(20 - 3*abs(expA-expB))
	score += clampZero(15 - 2*abs(freqA-freqB))

	score += 15

	if score > 100 {
		return 100
	}
	if score < 0 {
		return 0
	}
	return score
}

func sharedGyms(a, b *models.User) int {
	if len(a.Memberships) == 0 || len(b.Memberships) == 0 {
		return 0
	}
	gyms := make(map[string]bool, len(a.Memberships))
	for _, m := range a.Memberships {
		gyms[m.GymID] = true
	}
	shared := 0
	for _, m := range b.Memberships {
		if gyms[m.GymID] {
			shared++
		}
	}
	return shared
}

func trainingStats(u *models.User) (experienceYears, frequencyPerWeek int) {
	if u.TrainingProfile == nil {
		return 0, 0
	}
	return u.TrainingProfile.ExperienceYears, u.TrainingProfile.FrequencyPerWeek
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func clampZero(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
