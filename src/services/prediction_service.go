// src/services/prediction_service.go
package services

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/username/polpacost/src/artifacts"
	"github.com/username/polpacost/src/config"
	"github.com/username/polpacost/src/logger"
	"github.com/username/polpacost/src/models"
	"github.com/username/polpacost/src/processors"
	"github.com/username/polpacost/src/utils"
)

// Stage names the steps of one inference cycle, in order. Any stage may
// fail; failures carry their stage for audit.
type Stage string

const (
	StageLoading     Stage = "LOADING"
	StageAligning    Stage = "ALIGNING"
	StagePredicting  Stage = "PREDICTING"
	StageNormalizing Stage = "NORMALIZING"
	StageAdjusting   Stage = "ADJUSTING"
	StageConverting  Stage = "CONVERTING"
	StageDone        Stage = "DONE"
)

// The trained models produce EUR amounts; conversion happens at the end.
const modelNativeCurrency = "EUR"

type predictionServiceImpl struct {
	store      *artifacts.Store
	aligner    *processors.FeatureAligner
	normalizer *processors.UnitNormalizer
	composer   *processors.MultiplierComposer
	anchors    AnchorSource
	metrics    MetricsSink
	version    string
}

// NewPredictionService wires the inference orchestrator. It holds no
// per-request state: every call loads its own artifact handle and builds its
// own feature vector, so concurrent requests are fully independent.
func NewPredictionService(
	store *artifacts.Store,
	tuning config.Tuning,
	modelVersion string,
	anchors AnchorSource,
	metrics MetricsSink,
) PredictionService {
	return &predictionServiceImpl{
		store:      store,
		aligner:    processors.NewFeatureAligner(tuning),
		normalizer: processors.NewUnitNormalizer(tuning),
		composer:   processors.NewMultiplierComposer(tuning),
		anchors:    anchors,
		metrics:    metrics,
		version:    modelVersion,
	}
}

func (s *predictionServiceImpl) Predict(requestID string, req *models.PredictionRequest) (*models.PredictionResult, error) {
	startTime := time.Now()
	log := logger.WithRequestID(requestID)

	result, err := s.runPipeline(log, req)
	if err != nil {
		var stage Stage = StageLoading
		if pe, ok := err.(*PipelineError); ok {
			stage = pe.Stage
		}
		s.metrics.RecordError(stage, err.Error())
		s.metrics.RecordPrediction(req.ModelName, time.Since(startTime), false)
		return nil, err
	}

	s.metrics.RecordPrediction(req.ModelName, time.Since(startTime), true)
	log.Info("Prediction completed", "model", req.ModelName, "cost", result.Cost,
		"currency", result.Currency, "duration", time.Since(startTime))
	return result, nil
}

func (s *predictionServiceImpl) runPipeline(log *slog.Logger, req *models.PredictionRequest) (*models.PredictionResult, error) {
	// LOADING: resolve the artifact. A missing or corrupt artifact is a
	// recoverable condition, not a crash.
	artifact, exists, artifactPath := s.store.Resolve(req.ModelName, s.version)
	if !exists {
		return nil, failStage(StageLoading, ClassUnavailable,
			fmt.Errorf("%w: model '%s' version '%s'", ErrArtifactUnavailable, req.ModelName, s.version))
	}
	if artifact.Estimator == nil {
		return nil, failStage(StageLoading, ClassUnavailable,
			fmt.Errorf("%w: artifact at %s has no estimator", ErrArtifactUnavailable, artifactPath))
	}

	// ALIGNING: build the feature vector the estimator expects.
	features, err := s.aligner.Align(req, artifact)
	if err != nil {
		return nil, failStage(StageAligning, ClassAlignment, fmt.Errorf("%w: %v", ErrAlignment, err))
	}
	log.Debug("Feature vector aligned", "columns", len(features))

	// PREDICTING: invoke the opaque estimator.
	rawPrediction, err := artifact.Estimator.Predict(features)
	if err != nil {
		return nil, failStage(StagePredicting, ClassEstimator, fmt.Errorf("%w: %v", ErrEstimator, err))
	}

	// NORMALIZING: canonical EUR total with the guard-rail bounds check.
	totalEur, guardRailApplied := s.normalizer.Normalize(rawPrediction, req, artifact.Metrics)

	// ADJUSTING: economic multipliers unless the model already learned them.
	adjustedEur, taxMultiplier, leadTimeFactor := s.composer.Compose(totalEur, req, artifact.FeatureColumns)

	// CONVERTING: EUR-pivot conversion into the requested currency.
	eurBrl, eurUsd := s.resolveAnchors(req)
	rates := processors.BuildRates(eurBrl, eurUsd)

	finalValue, err := processors.Convert(adjustedEur, modelNativeCurrency, req.OutputCurrency, rates)
	if err != nil {
		return nil, failStage(StageConverting, ClassConversion, fmt.Errorf("%w: %v", ErrConversion, err))
	}

	// DONE: emit the immutable result with everything actually applied.
	return &models.PredictionResult{
		Cost:     utils.RoundFloat(finalValue, 2),
		Currency: req.OutputCurrency,
		Breakdown: models.PredictionBreakdown{
			ModelUsed:        req.ModelName,
			Version:          artifact.Version,
			TaxMultiplier:    taxMultiplier,
			FuelIndex:        req.FuelIndex,
			LeadTimeDays:     req.LeadTimeDays,
			LeadTimeFactor:   leadTimeFactor,
			FxUsed:           models.FxRates{BrlEur: rates["BRL_EUR"], BrlUsd: rates["BRL_USD"]},
			ArtifactPath:     artifactPath,
			GuardRailApplied: guardRailApplied,
		},
	}, nil
}

// resolveAnchors picks the FX anchors for this request: an explicit request
// override wins, then the live quote source, then the builder's baseline.
func (s *predictionServiceImpl) resolveAnchors(req *models.PredictionRequest) (eurBrl, eurUsd float64) {
	if s.anchors != nil {
		eurBrl, eurUsd = s.anchors.CurrentAnchors()
	}
	if req.FxEurBrl > 0 {
		eurBrl = req.FxEurBrl
	}
	if req.FxEurUsd > 0 {
		eurUsd = req.FxEurUsd
	}
	return eurBrl, eurUsd
}
