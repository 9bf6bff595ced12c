package out

import (
	"context"

	challengeout "urworld/internal/modules/challenge/port/out"
	profiledto "urworld/internal/modules/profile/dto"
	profilein "urworld/internal/modules/profile/port/in"
)

// ProfileRewardSink pays challenge rewards into the learner profile.
type ProfileRewardSink struct {
	profile profilein.Usecase
}

func NewProfileRewardSink(profile profilein.Usecase) challengeout.RewardSink {
	return ProfileRewardSink{profile: profile}
}

func (s ProfileRewardSink) Credit(ctx context.Context, amount int, reason string) error {
	_, err := s.profile.CreditPoints(ctx, profiledto.CreditInput{Amount: amount, Reason: reason})
	return err
}
