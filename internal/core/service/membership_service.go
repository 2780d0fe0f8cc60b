package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sfniknax/niknax/internal/api/metrics"
	"github.com/sfniknax/niknax/internal/core/domain"
	"github.com/sfniknax/niknax/internal/core/ports"
)

// MembershipService edits the public group and queue memberships of one user.
type MembershipService struct {
	records ports.RecordClient
	logger  zerolog.Logger
}

func NewMembershipService(records ports.RecordClient, logger zerolog.Logger) *MembershipService {
	return &MembershipService{records: records, logger: logger}
}

func (s *MembershipService) Groups(ctx context.Context, groupType domain.GroupType) ([]domain.Group, error) {
	if err := checkGroupType(groupType); err != nil {
		return nil, err
	}
	var groups []domain.Group
	soql := "SELECT Id, Name, DeveloperName, Type FROM Group WHERE Type = " + domain.QuoteSOQL(string(groupType)) + " ORDER BY Name"
	if err := s.records.Query(ctx, soql, &groups); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	return groups, nil
}

func (s *MembershipService) Memberships(ctx context.Context, userID string, groupType domain.GroupType) ([]domain.GroupMember, error) {
	if err := checkUserIDs(userID); err != nil {
		return nil, err
	}
	if err := checkGroupType(groupType); err != nil {
		return nil, err
	}
	soql := "SELECT Id, GroupId, UserOrGroupId, Group.Name, Group.Type FROM GroupMember" +
		" WHERE UserOrGroupId = " + domain.QuoteSOQL(userID) +
		" AND Group.Type = " + domain.QuoteSOQL(string(groupType)) +
		" ORDER BY Group.Name"

	var members []domain.GroupMember
	if err := s.records.Query(ctx, soql, &members); err != nil {
		return nil, fmt.Errorf("read group memberships: %w", err)
	}
	return members, nil
}

// AddMemberships makes userID a member of each group. Group ids that are not
// groups of groupType, or that the user already belongs to, fail on their own
// result; the others are still created.
func (s *MembershipService) AddMemberships(ctx context.Context, userID string, groupType domain.GroupType, groupIDs []string) ([]domain.CloneResult, error) {
	for _, id := range groupIDs {
		if !domain.IsRecordID(id) {
			return nil, fmt.Errorf("group id %q: %w", id, domain.ErrInvalidInput)
		}
	}
	current, err := s.Memberships(ctx, userID, groupType)
	if err != nil {
		return nil, err
	}
	if len(groupIDs) == 0 {
		return []domain.CloneResult{}, nil
	}

	quoted := make([]string, len(groupIDs))
	for i, id := range groupIDs {
		quoted[i] = domain.QuoteSOQL(id)
	}
	var groups []domain.Group
	soql := "SELECT Id, Name, Type FROM Group WHERE Id IN (" + strings.Join(quoted, ", ") + ")" +
		" AND Type = " + domain.QuoteSOQL(string(groupType))
	if err := s.records.Query(ctx, soql, &groups); err != nil {
		return nil, fmt.Errorf("read groups: %w", err)
	}

	byID := make(map[string]domain.Group, len(groups))
	for _, g := range groups {
		byID[g.ID] = g
	}
	member := make(map[string]bool, len(current))
	for _, m := range current {
		member[m.GroupID] = true
	}

	label := groupType.CloneLabel()
	results := make([]domain.CloneResult, 0, len(groupIDs))
	for _, id := range groupIDs {
		g, ok := byID[id]
		switch {
		case !ok:
			results = append(results, s.changeResult("add", id, label, fmt.Errorf("%s %s: %w", label, id, domain.ErrNotFound)))
		case member[id]:
			results = append(results, s.changeResult("add", g.Name, label, errors.New("already a member")))
		default:
			m := domain.GroupMember{GroupID: id, UserOrGroupID: userID}
			_, err := s.records.Create(ctx, domain.ObjectGroupMember, m.Record())
			results = append(results, s.changeResult("add", g.Name, label, err))
			member[id] = err == nil
		}
	}
	return results, nil
}

// RemoveMembership deletes one membership of userID. Memberships of other
// users or other group types are reported as not found.
func (s *MembershipService) RemoveMembership(ctx context.Context, userID string, groupType domain.GroupType, membershipID string) error {
	current, err := s.Memberships(ctx, userID, groupType)
	if err != nil {
		return err
	}
	for _, m := range current {
		if m.ID != membershipID {
			continue
		}
		err := s.records.Delete(ctx, domain.ObjectGroupMember, m.ID)
		s.changeResult("remove", m.Label(), groupType.CloneLabel(), err)
		if err != nil {
			return fmt.Errorf("remove membership: %w", err)
		}
		return nil
	}
	return fmt.Errorf("membership %s: %w", membershipID, domain.ErrNotFound)
}

func (s *MembershipService) changeResult(action, item, typ string, err error) domain.CloneResult {
	res := domain.CloneResult{Item: item, Type: typ}
	outcome := metrics.OutcomeSuccess
	if err != nil {
		res.Error = err.Error()
		outcome = metrics.OutcomeError
		s.logger.Warn().Err(err).Str("action", action).Str("item", item).Msg("membership change failed")
	} else {
		s.logger.Info().Str("action", action).Str("item", item).Str("type", typ).Msg("membership changed")
	}
	metrics.MembershipChangesTotal.WithLabelValues(action, outcome).Inc()
	return res
}

func checkGroupType(t domain.GroupType) error {
	if t != domain.GroupTypeRegular && t != domain.GroupTypeQueue {
		return fmt.Errorf("group type %q: %w", t, domain.ErrInvalidInput)
	}
	return nil
}
