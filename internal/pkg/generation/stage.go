package generation

// Stage is a state of the request pipeline.
type Stage string

const (
	StageAuthenticating       Stage = "AUTHENTICATING"
	StageValidatingInput      Stage = "VALIDATING_INPUT"
	StageCheckingQuota        Stage = "CHECKING_QUOTA"
	StageBuildingContext      Stage = "BUILDING_CONTEXT"
	StageSynthesizingCaptions Stage = "SYNTHESIZING_CAPTIONS"
	StageSynthesizingImage    Stage = "SYNTHESIZING_IMAGE"
	StagePersistingAsset      Stage = "PERSISTING_ASSET"
	StageRecording            Stage = "RECORDING"
	StageResponding           Stage = "RESPONDING"
)
