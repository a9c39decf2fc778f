package matching_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MaekawaAo0604/muscle-SNS/internal/matching"
	"github.com/MaekawaAo0604/muscle-SNS/internal/models"
)

func intPtr(n int) *int { return &n }

func userWith(age *int, gymIDs []string, exp, freq int) *models.User {
	u := &models.User{Age: age}
	for _, id := range gymIDs {
		u.Memberships = append(u.Memberships, models.GymMembership{GymID: id})
	}
	u.TrainingProfile = &models.TrainingProfile{
		ExperienceYears:  exp,
		FrequencyPerWeek: freq,
	}
	return u
}

func TestScoreIdenticalProfiles(t *testing.T) {
	a := userWith(intPtr(28), []string{"g1"}, 3, 4)
	b := userWith(intPtr(28), []string{"g1"}, 3, 4)

	// 20 (age) + 15 (one shared gym) + 20 (exp) + 15 (freq) + 15 (base)
	assert.Equal(t, 85, matching.Score(a, b))
}

func TestScoreAgeComponent(t *testing.T) {
	base := func(ageA, ageB *int) int {
		// no gyms, identical training stats
		a := userWith(ageA, nil, 0, 0)
		b := userWith(ageB, nil, 0, 0)
		return matching.Score(a, b)
	}

	// exp 20 + freq 15 + base 15 = 50 without the age component
	assert.Equal(t, 70, base(intPtr(30), intPtr(30)))
	assert.Equal(t, 60, base(intPtr(30), intPtr(35)))
	// gap of 10+ years zeroes the component rather than going negative
	assert.Equal(t, 50, base(intPtr(30), intPtr(45)))
	// unknown age on either side contributes nothing
	assert.Equal(t, 50, base(nil, intPtr(30)))
	assert.Equal(t, 50, base(intPtr(30), nil))
}

func TestScoreSharedGyms(t *testing.T) {
	a := userWith(nil, []string{"g1", "g2", "g3"}, 0, 0)
	b := userWith(nil, []string{"g2", "g3", "g4"}, 0, 0)

	// 2 shared gyms at 15 each on top of the 50 baseline
	assert.Equal(t, 80, matching.Score(a, b))
}

func TestScoreClampsToHundred(t *testing.T) {
	gyms := []string{"g1", "g2", "g3", "g4", "g5"}
	a := userWith(intPtr(25), gyms, 2, 3)
	b := userWith(intPtr(25), gyms, 2, 3)

	assert.Equal(t, 100, matching.Score(a, b))
}

func TestScoreTrainingProximity(t *testing.T) {
	a := userWith(nil, nil, 5, 6)
	b := userWith(nil, nil, 1, 2)

	// exp: 20 - 3*4 = 8, freq: 15 - 2*4 = 7, base 15
	assert.Equal(t, 30, matching.Score(a, b))

	// missing profile counts as zero experience and frequency
	c := userWith(nil, nil, 0, 0)
	c.TrainingProfile = nil
	d := userWith(nil, nil, 7, 7)
	// exp: 20 - 21 -> 0, freq: 15 - 14 = 1, base 15
	assert.Equal(t, 16, matching.Score(c, d))
}

func TestScoreIsSymmetricAndBounded(t *testing.T) {
	profiles := []*models.User{
		userWith(nil, nil, 0, 0),
		userWith(intPtr(18), []string{"g1"}, 1, 2),
		userWith(intPtr(60), []string{"g1", "g2"}, 20, 7),
		userWith(intPtr(35), []string{"g3"}, 0, 14),
	}
	for _, a := range profiles {
		for _, b := range profiles {
			got := matching.Score(a, b)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 100)
			assert.Equal(t, got, matching.Score(b, a))
		}
	}
}
