// src/artifacts/store.go
package artifacts

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/polpacost/src/logger"
)

const artifactExt = ".json"

// artifactRecord is the structured on-disk shape. Older artifacts used
// "columns"; the current trainer writes "feature_columns". Both are accepted.
type artifactRecord struct {
	Name           string          `json:"name"`
	Version        string          `json:"version"`
	Estimator      json.RawMessage `json:"estimator"`
	Encoder        *BoundEncoder   `json:"encoder,omitempty"`
	Columns        []string        `json:"columns,omitempty"`
	FeatureColumns []string        `json:"feature_columns,omitempty"`
	Metrics        TrainedMetrics  `json:"metrics,omitempty"`
	CreatedAt      string          `json:"created_at,omitempty"`
}

// VersionInfo describes one persisted artifact file.
type VersionInfo struct {
	Version   string `json:"version"` // filename stem, e.g. cost_model_0.1.0_random_forest
	CreatedAt string `json:"created_at"`
	SizeBytes int64  `json:"size_bytes"`
}

// Store resolves (model name, version) pairs to loaded artifacts. It is safe
// for concurrent use: loads are independent filesystem reads and the optional
// cache is evict-only over immutable values.
type Store struct {
	modelsDir string
	cache     *cache.Cache // nil when caching is disabled
}

func NewStore(modelsDir string) *Store {
	return &Store{modelsDir: modelsDir}
}

// NewCachedStore enables the evict-only artifact cache. Redundant reads are
// correctness-neutral, so no invalidation protocol is needed; entries simply
// expire.
func NewCachedStore(modelsDir string, ttl time.Duration) *Store {
	return &Store{
		modelsDir: modelsDir,
		cache:     cache.New(ttl, 2*ttl),
	}
}

// ArtifactPath is the deterministic path for a (version, model name) pair.
func (s *Store) ArtifactPath(version, modelName string) string {
	return filepath.Join(s.modelsDir, fmt.Sprintf("cost_model_%s_%s%s", version, modelName, artifactExt))
}

// Resolve loads the artifact for (modelName, version). A missing or corrupt
// artifact is not an error: it returns exists=false with a logged diagnostic
// so the caller can degrade to a recoverable "unavailable" condition.
func (s *Store) Resolve(modelName, version string) (*ModelArtifact, bool, string) {
	path := s.ArtifactPath(version, modelName)
	cacheKey := modelName + "@" + version

	if s.cache != nil {
		if cached, found := s.cache.Get(cacheKey); found {
			logger.L.Debug("Artifact cache hit", "model", modelName, "version", version)
			return cached.(*ModelArtifact), true, path
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.L.Warn("Artifact not found", "model", modelName, "version", version, "path", path)
		} else {
			logger.L.Error("Error reading artifact file", "path", path, "error", err)
		}
		return nil, false, path
	}

	artifact, err := decodeArtifact(data, modelName, version)
	if err != nil {
		logger.L.Error("Corrupt artifact, treating as unavailable", "path", path, "error", err)
		return nil, false, path
	}

	logger.L.Info("Artifact loaded", "model", artifact.Name, "version", artifact.Version,
		"columns", len(artifact.FeatureColumns), "explain", artifact.Explain.Kind)

	if s.cache != nil {
		s.cache.SetDefault(cacheKey, artifact)
	}
	return artifact, true, path
}

// decodeArtifact normalizes both historical serialization shapes (structured
// record and legacy bare estimator) into one ModelArtifact.
func decodeArtifact(data []byte, modelName, version string) (*ModelArtifact, error) {
	var record artifactRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("error unmarshalling artifact: %w", err)
	}

	estimatorRaw := record.Estimator
	if len(estimatorRaw) == 0 {
		// Legacy shape: the whole payload is a bare estimator with no
		// metadata wrapper.
		estimatorRaw = json.RawMessage(data)
		logger.L.Warn("Legacy bare-estimator artifact, metadata defaults applied", "model", modelName, "version", version)
	}

	estimator, err := decodeEstimator(estimatorRaw)
	if err != nil {
		return nil, err
	}

	columns := record.FeatureColumns
	if len(columns) == 0 {
		columns = record.Columns
	}
	if len(columns) == 0 {
		columns = LegacyFeatureColumns()
	}

	name := record.Name
	if name == "" {
		name = modelName
	}
	ver := record.Version
	if ver == "" {
		ver = version
	}

	return &ModelArtifact{
		Name:           name,
		Version:        ver,
		Estimator:      estimator,
		Encoder:        record.Encoder,
		FeatureColumns: columns,
		Metrics:        record.Metrics,
		CreatedAt:      record.CreatedAt,
		Explain:        resolveExplainability(estimator, len(columns)),
	}, nil
}

// Save persists an artifact in the structured record shape. Inference never
// calls this; it exists for the training side and for seeding fixtures.
func (s *Store) Save(a *ModelArtifact) error {
	if a.Estimator == nil {
		return fmt.Errorf("refusing to save artifact %q without an estimator", a.Name)
	}

	estimatorRaw, err := encodeEstimator(a.Estimator)
	if err != nil {
		return err
	}

	createdAt := a.CreatedAt
	if createdAt == "" {
		createdAt = time.Now().Format(time.RFC3339)
	}

	record := artifactRecord{
		Name:           a.Name,
		Version:        a.Version,
		Estimator:      estimatorRaw,
		Encoder:        a.Encoder,
		FeatureColumns: a.FeatureColumns,
		Metrics:        a.Metrics,
		CreatedAt:      createdAt,
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("error marshalling artifact %q: %w", a.Name, err)
	}

	path := s.ArtifactPath(a.Version, a.Name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("error creating models directory: %w", err)
	}

	// Write-then-rename keeps concurrent readers away from half-written files.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("error writing artifact %q: %w", a.Name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("error renaming artifact %q into place: %w", a.Name, err)
	}

	logger.L.Info("Artifact saved", "model", a.Name, "version", a.Version, "path", path)
	return nil
}

// List returns every persisted artifact, most recent first.
func (s *Store) List() ([]VersionInfo, error) {
	entries, err := os.ReadDir(s.modelsDir)
	if err != nil {
		return nil, fmt.Errorf("error reading models directory '%s': %w", s.modelsDir, err)
	}

	var versions []VersionInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), artifactExt) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			logger.L.Warn("Skipping unreadable artifact entry", "name", entry.Name(), "error", err)
			continue
		}
		versions = append(versions, VersionInfo{
			Version:   strings.TrimSuffix(entry.Name(), artifactExt),
			CreatedAt: info.ModTime().Format(time.RFC3339),
			SizeBytes: info.Size(),
		})
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].CreatedAt > versions[j].CreatedAt
	})
	return versions, nil
}

// checkVersionStem rejects stems that could escape the models directory.
func checkVersionStem(stem string) error {
	if stem == "" || strings.ContainsAny(stem, "/\\") || strings.Contains(stem, "..") {
		return fmt.Errorf("invalid artifact version '%s'", stem)
	}
	return nil
}

// Delete removes the artifact file with the given filename stem.
func (s *Store) Delete(versionStem string) error {
	if err := checkVersionStem(versionStem); err != nil {
		return err
	}
	path := filepath.Join(s.modelsDir, versionStem+artifactExt)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("artifact version '%s' not found", versionStem)
		}
		return fmt.Errorf("error checking artifact version '%s': %w", versionStem, err)
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("error removing artifact version '%s': %w", versionStem, err)
	}
	if s.cache != nil {
		s.cache.Flush()
	}
	logger.L.Info("Artifact version deleted", "version", versionStem)
	return nil
}
