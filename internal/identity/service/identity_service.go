/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/wso2/identity-contact-reconciliation-service/internal/contact/store"
	"github.com/wso2/identity-contact-reconciliation-service/internal/identity/model"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/config"
	syscontext "github.com/wso2/identity-contact-reconciliation-service/internal/system/context"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/errors"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/log"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/metrics"
	"github.com/wso2/identity-contact-reconciliation-service/internal/system/utils"
)

// IdentityServiceInterface resolves identifier observations into contact clusters.
type IdentityServiceInterface interface {
	Identify(ctx context.Context, email, phoneNumber *string) (*model.ClusterView, error)
}

// IdentityService runs match, resolve, write and view in one transaction per attempt.
type IdentityService struct {
	repository   store.ContactRepositoryInterface
	matchFinder  *MatchFinder
	resolver     *ClusterResolver
	writer       *ClusterWriter
	viewBuilder  *ViewBuilder
	maxAttempts  int
	retryBackoff time.Duration
	metrics      *metrics.Metrics
}

var (
	identityService   IdentityServiceInterface
	identityServiceMu sync.Mutex
)

// NewIdentityService creates a service over the given repository. m may be nil.
func NewIdentityService(repository store.ContactRepositoryInterface, cfg config.IdentifyConfig,
	m *metrics.Metrics) *IdentityService {

	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &IdentityService{
		repository:   repository,
		matchFinder:  NewMatchFinder(),
		resolver:     NewClusterResolver(),
		writer:       NewClusterWriter(),
		viewBuilder:  NewViewBuilder(),
		maxAttempts:  maxAttempts,
		retryBackoff: cfg.RetryBackoff,
		metrics:      m,
	}
}

// GetIdentityService returns the process wide identity service.
func GetIdentityService() (IdentityServiceInterface, error) {

	identityServiceMu.Lock()
	defer identityServiceMu.Unlock()
	if identityService != nil {
		return identityService, nil
	}
	repository, err := store.GetContactRepository()
	if err != nil {
		return nil, err
	}
	identityService = NewIdentityService(repository, config.GetCRSRuntime().Config.Identify, metrics.Default())
	return identityService, nil
}

// SetIdentityService replaces the process wide identity service.
func SetIdentityService(service IdentityServiceInterface) {

	identityServiceMu.Lock()
	defer identityServiceMu.Unlock()
	identityService = service
}

// Identify absorbs the (email, phoneNumber) observation into the contact clusters and returns the
// view of the cluster it ends up in. Transient storage failures are retried from scratch; replaying
// an applied observation changes nothing.
func (s *IdentityService) Identify(ctx context.Context, email, phoneNumber *string) (*model.ClusterView, error) {

	start := time.Now()
	traceID := syscontext.GetOrGenerateTraceID(ctx)
	logger := log.GetLogger().With(log.String("trace_id", traceID))

	normalizedEmail, normalizedPhone, err := utils.NormalizeIdentifiers(email, phoneNumber)
	if err != nil {
		s.metrics.ObserveIdentify("", metrics.OutcomeValidationError, start)
		return nil, errors.WithTraceID(err, traceID)
	}
	observation := model.Observation{Email: normalizedEmail, PhoneNumber: normalizedPhone}

	for attempt := 1; ; attempt++ {
		view, action, err := s.identifyOnce(ctx, observation)
		if err == nil {
			s.recordChange(logger, traceID, action, view)
			s.metrics.ObserveIdentify(string(action.Type), metrics.OutcomeSuccess, start)
			return view, nil
		}

		if errors.IsIntegrityError(err) {
			logger.Error("Contact cluster integrity violation", log.Error(err))
			s.metrics.ObserveIdentify("", metrics.OutcomeIntegrityError, start)
			return nil, errors.WithTraceID(err, traceID)
		}
		if !errors.IsRetryable(err) {
			s.metrics.ObserveIdentify("", outcomeOf(err), start)
			return nil, errors.WithTraceID(err, traceID)
		}
		if attempt >= s.maxAttempts || ctx.Err() != nil {
			logger.Warn(fmt.Sprintf("Identify failed after %d attempt(s)", attempt), log.Error(err))
			s.metrics.ObserveIdentify("", metrics.OutcomeStorageError, start)
			return nil, errors.WithTraceID(err, traceID)
		}

		s.metrics.IncrementRetries()
		logger.Debug("Retrying identify after a transient storage failure",
			log.Int("attempt", attempt), log.Error(err))
		if err := s.wait(ctx, attempt); err != nil {
			s.metrics.ObserveIdentify("", metrics.OutcomeStorageError, start)
			return nil, errors.WithTraceID(err, traceID)
		}
	}
}

func (s *IdentityService) identifyOnce(ctx context.Context, observation model.Observation) (
	*model.ClusterView, *model.MergeAction, error) {

	var view *model.ClusterView
	var action *model.MergeAction
	err := s.repository.RunInTx(ctx, func(ctx context.Context, contactStore store.ContactStoreInterface) error {
		// Creators of the same identifier queue here, so each one reads the rows the previous one wrote.
		if err := contactStore.LockIdentifiers(ctx, identifierLockKeys(observation)...); err != nil {
			return err
		}
		candidates, err := s.matchFinder.FindCandidates(ctx, contactStore, observation)
		if err != nil {
			return err
		}
		roots, err := s.matchFinder.LoadRoots(ctx, contactStore, candidates)
		if err != nil {
			return err
		}
		resolved, err := s.resolver.Resolve(candidates, roots, observation)
		if err != nil {
			return err
		}
		cluster, err := s.writer.Apply(ctx, contactStore, resolved)
		if err != nil {
			return err
		}
		built := s.viewBuilder.BuildView(cluster.Primary, cluster.Secondaries)
		view = &built
		action = resolved
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return view, action, nil
}

// wait sleeps for the linear backoff of the given attempt, or until ctx ends.
func (s *IdentityService) wait(ctx context.Context, attempt int) error {

	if s.retryBackoff <= 0 {
		return nil
	}
	timer := time.NewTimer(s.retryBackoff * time.Duration(attempt))
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return errors.NewServerError(errors.ErrorMessage{
			Code:        errors.LOCK_TIMEOUT.Code,
			Message:     errors.LOCK_TIMEOUT.Message,
			Description: "Context ended while waiting to retry identify.",
		}, ctx.Err())
	}
}

func (s *IdentityService) recordChange(logger *log.Logger, traceID string, action *model.MergeAction,
	view *model.ClusterView) {

	logger.Debug("Resolved identify action", log.String("action", string(action.Type)),
		log.Int64("primary_contact_id", view.PrimaryContactId))

	switch action.Type {
	case model.ActionNoOp:
		return
	case model.ActionCreatePrimary:
		logger.Info("Created primary contact", log.Int64("primary_contact_id", view.PrimaryContactId))
	case model.ActionAttachSecondary:
		logger.Info("Attached secondary contact", log.Int64("primary_contact_id", view.PrimaryContactId))
	case model.ActionMergeClusters:
		loserIds := make([]int64, 0, len(action.Losers))
		for _, loser := range action.Losers {
			loserIds = append(loserIds, loser.Id)
		}
		s.metrics.AddMergedLosers(len(loserIds))
		logger.Info("Merged contact clusters", log.Int64("primary_contact_id", view.PrimaryContactId),
			log.Int64s("demoted_contact_ids", loserIds))
	}
	logger.Audit(log.NewClusterAuditEvent(traceID, view.PrimaryContactId, string(action.Type), view))
}

func outcomeOf(err error) string {
	switch {
	case errors.IsValidationError(err):
		return metrics.OutcomeValidationError
	case errors.IsIntegrityError(err):
		return metrics.OutcomeIntegrityError
	case errors.IsDataRejected(err):
		return metrics.OutcomeDataRejected
	default:
		return metrics.OutcomeStorageError
	}
}
