package lsp

import (
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"qls/internal/frontend"
	"qls/internal/target"
)

// handleDidChangeConfiguration recompiles every open session under the new
// settings and republishes their diagnostics. Invalid values are logged
// and the previous ones kept.
func (s *Server) handleDidChangeConfiguration(msg *rpcMessage) error {
	if len(msg.Params) == 0 {
		return nil
	}
	var params didChangeConfigurationParams
	if err := json.Unmarshal(msg.Params, &params); err != nil || len(params.Settings) == 0 {
		return nil
	}
	var settings lspSettings
	if err := json.Unmarshal(params.Settings, &settings); err != nil {
		s.logf("ignoring settings: %v", err)
		return nil
	}

	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()
	qs := settings.QSharp
	if qs.TargetProfile != nil {
		profile, err := target.ParseProfile(*qs.TargetProfile)
		if err != nil {
			s.logf("ignoring settings: %v", err)
			return nil
		}
		cfg.Profile = profile
	}
	if qs.PackageType != nil {
		pkgType, err := frontend.ParsePackageType(*qs.PackageType)
		if err != nil {
			s.logf("ignoring settings: %v", err)
			return nil
		}
		cfg.PackageType = pkgType
	}
	if qs.LanguageFeatures != nil {
		features, unknown := frontend.ParseLanguageFeatures(qs.LanguageFeatures)
		if len(unknown) > 0 {
			s.logf("ignoring unknown language features: %s", strings.Join(unknown, ", "))
		}
		cfg.Features = features
	}
	if qs.Lints != nil {
		cfg.Lints = qs.Lints
	}

	s.mu.Lock()
	s.cfg = cfg
	s.mu.Unlock()
	if err := s.svc.SetConfig(s.baseCtx, cfg); err != nil {
		return err
	}
	return s.republishAll()
}

func (s *Server) republishAll() error {
	s.mu.Lock()
	docs := slices.Sorted(maps.Keys(s.docs))
	nbs := slices.Sorted(maps.Keys(s.notebooks))
	cells := make([][]string, len(nbs))
	for i, nb := range nbs {
		cells[i] = s.codeCellsLocked(nb)
	}
	s.mu.Unlock()

	for _, uri := range docs {
		if comp, ok := s.svc.Snapshot(uri); ok {
			if err := s.publish(comp, []string{uri}); err != nil {
				return err
			}
		}
	}
	for i, nb := range nbs {
		if comp, ok := s.svc.Snapshot(nb); ok {
			if err := s.publish(comp, cells[i]); err != nil {
				return err
			}
		}
	}
	return nil
}
