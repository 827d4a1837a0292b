package music

import "fmt"

// ProjectBlueprint defines the use case and structure of the piece
type ProjectBlueprint string

const (
	BlueprintAdBrandFastHook      ProjectBlueprint = "ad_brand_fast_hook"
	BlueprintPodcastVoiceoverLoop ProjectBlueprint = "podcast_voiceover_loop"
	BlueprintVideoGameActionLoop  ProjectBlueprint = "video_game_action_loop"
	BlueprintMeditationSleep      ProjectBlueprint = "meditation_sleep"
	BlueprintStandaloneSongMini   ProjectBlueprint = "standalone_song_mini"
)

// SoundProfile defines the genre and sonic character of the piece
type SoundProfile string

const (
	ProfileBrightPopElectro SoundProfile = "bright_pop_electro"
	ProfileDarkTrapNight    SoundProfile = "dark_trap_night"
	ProfileLofiCozy         SoundProfile = "lofi_cozy"
	ProfileEpicCinematic    SoundProfile = "epic_cinematic"
	ProfileIndieLiveBand    SoundProfile = "indie_live_band"
)

// DeliveryAndControl defines the workflow and output preferences
type DeliveryAndControl string

const (
	DeliveryExploratoryIterate DeliveryAndControl = "exploratory_iterate"
	DeliveryBalancedStudio     DeliveryAndControl = "balanced_studio"
	DeliveryBlueprintPlanFirst DeliveryAndControl = "blueprint_plan_first"
	DeliveryLiveOneTake        DeliveryAndControl = "live_one_take"
	DeliveryIsolationStems     DeliveryAndControl = "isolation_stems"
)

// Valid reports whether b is one of the five defined blueprints
func (b ProjectBlueprint) Valid() bool {
	switch b {
	case BlueprintAdBrandFastHook, BlueprintPodcastVoiceoverLoop,
		BlueprintVideoGameActionLoop, BlueprintMeditationSleep,
		BlueprintStandaloneSongMini:
		return true
	}
	return false
}

// Valid reports whether p is one of the five defined profiles
func (p SoundProfile) Valid() bool {
	switch p {
	case ProfileBrightPopElectro, ProfileDarkTrapNight, ProfileLofiCozy,
		ProfileEpicCinematic, ProfileIndieLiveBand:
		return true
	}
	return false
}

// Valid reports whether d is one of the five defined delivery modes
func (d DeliveryAndControl) Valid() bool {
	switch d {
	case DeliveryExploratoryIterate, DeliveryBalancedStudio,
		DeliveryBlueprintPlanFirst, DeliveryLiveOneTake,
		DeliveryIsolationStems:
		return true
	}
	return false
}

// PresetSelection is the three-choice wizard input for prompt generation.
// The three enum fields are closed sets; anything outside them must be
// rejected before a provider call is made.
type PresetSelection struct {
	ProjectBlueprint   ProjectBlueprint   `json:"project_blueprint" binding:"required"`
	SoundProfile       SoundProfile       `json:"sound_profile" binding:"required"`
	DeliveryAndControl DeliveryAndControl `json:"delivery_and_control" binding:"required"`
	InstrumentalOnly   bool               `json:"instrumental_only"`
	UserNarrative      *string            `json:"user_narrative"`
}

// Validate checks the three enum fields against their closed sets
func (s *PresetSelection) Validate() error {
	if !s.ProjectBlueprint.Valid() {
		return &ValidationError{Field: "project_blueprint", Reason: fmt.Sprintf("unknown value %q", string(s.ProjectBlueprint))}
	}
	if !s.SoundProfile.Valid() {
		return &ValidationError{Field: "sound_profile", Reason: fmt.Sprintf("unknown value %q", string(s.SoundProfile))}
	}
	if !s.DeliveryAndControl.Valid() {
		return &ValidationError{Field: "delivery_and_control", Reason: fmt.Sprintf("unknown value %q", string(s.DeliveryAndControl))}
	}
	return nil
}
