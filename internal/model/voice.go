package model

import "fmt"

// VoiceStyle is the closed set of delivery styles for podcast feedback.
type VoiceStyle string

const (
	VoiceEnergetic VoiceStyle = "energetic"
	VoiceCalm      VoiceStyle = "calm"
	VoiceFirm      VoiceStyle = "firm"
	VoiceWarm      VoiceStyle = "warm"
	VoiceNeutral   VoiceStyle = "neutral"
)

// VoiceProfile binds a style to a speech-backend voice id plus delivery
// instructions prepended to the script.
type VoiceProfile struct {
	VoiceName string
	Delivery  string
}

var voiceProfiles = map[VoiceStyle]VoiceProfile{
	VoiceEnergetic: {VoiceName: "Puck", Delivery: "Fale com energia e entusiasmo, ritmo acelerado."},
	VoiceCalm:      {VoiceName: "Zephyr", Delivery: "Fale com calma e serenidade, ritmo pausado."},
	VoiceFirm:      {VoiceName: "Charon", Delivery: "Fale com firmeza e objetividade, tom sério."},
	VoiceWarm:      {VoiceName: "Kore", Delivery: "Fale com acolhimento e cordialidade."},
	VoiceNeutral:   {VoiceName: "Fenrir", Delivery: "Fale em tom neutro e profissional."},
}

// Profile resolves a style to its voice profile. Unknown styles are
// rejected rather than silently defaulted.
func (s VoiceStyle) Profile() (VoiceProfile, error) {
	p, ok := voiceProfiles[s]
	if !ok {
		return VoiceProfile{}, fmt.Errorf("unknown voice style %q", s)
	}
	return p, nil
}
