package processor

import (
	"context"
	"errors"
	"math"
	"time"

	"givehub-server/internal/observability"
	"givehub-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrCampaignNotFound            = errors.New("campaign not found")
	ErrCreatorNotFound             = errors.New("campaign creator not found")
	ErrEmergencyReputationTooLow   = errors.New("emergency campaigns require higher reputation")
	ErrEmergencyMultipleMilestones = errors.New("emergency campaigns allow at most one milestone")
	ErrMilestoneBudgetMismatch     = errors.New("milestone budgets do not add up to target amount")
	ErrMilestoneDurationInvalid    = errors.New("milestone duration out of range")
	ErrEndDateBeforeStart          = errors.New("end date must be after start date")
	ErrActiveCampaignLimit         = errors.New("open campaign limit reached")
	ErrInvalidStatusTransition     = errors.New("invalid campaign status transition")
	ErrNotCampaignOwner            = errors.New("not the campaign owner")
	ErrCampaignNotEditable         = errors.New("campaign can no longer be edited")
	ErrCampaignHasDonations        = errors.New("campaign has donations")
	ErrRejectionReasonRequired     = errors.New("rejection reason required")
	ErrAlreadyFollowed             = errors.New("campaign already followed")
	ErrNotFollowed                 = errors.New("campaign not followed")
	ErrForbidden                   = errors.New("forbidden")
)

const (
	emergencyMinReputation = 60

	// Reputation thresholds for the per-creator open campaign quota.
	quotaHighReputation = 80
	quotaMidReputation  = 60

	minMilestoneDurationDays = 1
	maxMilestoneDurationDays = 365

	emergencyMilestoneDurationDays = 30
)

// Actor identifies who is performing an operation.
type Actor struct {
	ID   primitive.ObjectID
	Role store.UserRole
}

func (a Actor) isAdmin() bool {
	return a.Role == store.UserRoleAdmin
}

// MilestoneInput is a milestone as submitted at campaign creation.
type MilestoneInput struct {
	Title        string
	Description  string
	Budget       float64
	DurationDays int
}

// CreateCampaignParams carries everything needed to open a campaign.
type CreateCampaignParams struct {
	Title        string
	Description  string
	Type         store.CampaignType
	FundingType  store.FundingType
	TargetAmount float64
	ReviewFee    float64
	Category     string
	Tags         []string
	Milestones   []MilestoneInput
	StartDate    time.Time
	EndDate      time.Time
	CoverImage   string
	Gallery      []string
}

type CampaignProcessor struct {
	store  CampaignStore
	logger *observability.Logger
}

func New(store CampaignStore, logger *observability.Logger) CampaignProcessor {
	return CampaignProcessor{store: store, logger: logger}
}

// openCampaignQuota is how many campaigns a creator may have open at once,
// scaled by reputation.
func openCampaignQuota(reputation int) int64 {
	switch {
	case reputation >= quotaHighReputation:
		return 5
	case reputation >= quotaMidReputation:
		return 3
	default:
		return 2
	}
}

// reviewPriority ranks the review queue by the fee paid.
func reviewPriority(reviewFee float64) int {
	switch {
	case reviewFee >= 500000:
		return 4
	case reviewFee >= 200000:
		return 3
	case reviewFee >= 50000:
		return 2
	default:
		return 1
	}
}

// Create validates the campaign rules and opens it in pending_review.
// Emergency campaigns need reputation and are limited to a single milestone;
// when none is given a full-disbursement milestone is synthesized.
func (p *CampaignProcessor) Create(ctx context.Context, actor Actor, params CreateCampaignParams) (store.Campaign, error) {
	ctx = observability.WithFields(ctx, observability.Field{Key: "creatorId", Value: actor.ID.Hex()})

	creator, err := p.store.GetUserByID(ctx, actor.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, ErrCreatorNotFound
		}
		p.logger.Error(ctx, "failed to load campaign creator", err)
		return store.Campaign{}, err
	}

	milestones := params.Milestones
	if params.Type == store.CampaignTypeEmergency {
		if creator.Reputation < emergencyMinReputation {
			return store.Campaign{}, ErrEmergencyReputationTooLow
		}
		if len(milestones) > 1 {
			return store.Campaign{}, ErrEmergencyMultipleMilestones
		}
		if len(milestones) == 0 {
			milestones = []MilestoneInput{{
				Title:        "Emergency disbursement",
				Description:  "Full disbursement of the emergency target",
				Budget:       params.TargetAmount,
				DurationDays: emergencyMilestoneDurationDays,
			}}
		}
	}

	var budgetTotal float64
	for _, m := range milestones {
		if m.DurationDays < minMilestoneDurationDays || m.DurationDays > maxMilestoneDurationDays {
			return store.Campaign{}, ErrMilestoneDurationInvalid
		}
		budgetTotal += m.Budget
	}
	if math.Abs(budgetTotal-params.TargetAmount) > 0.01 {
		return store.Campaign{}, ErrMilestoneBudgetMismatch
	}
	if !params.EndDate.After(params.StartDate) {
		return store.Campaign{}, ErrEndDateBeforeStart
	}

	open, err := p.store.CountOpenCampaignsByCreator(ctx, actor.ID)
	if err != nil {
		p.logger.Error(ctx, "failed to count open campaigns", err)
		return store.Campaign{}, err
	}
	if open >= openCampaignQuota(creator.Reputation) {
		return store.Campaign{}, ErrActiveCampaignLimit
	}

	embedded := make([]store.Milestone, 0, len(milestones))
	for _, m := range milestones {
		embedded = append(embedded, store.Milestone{
			Title:        m.Title,
			Description:  m.Description,
			Budget:       m.Budget,
			DurationDays: m.DurationDays,
			Status:       store.MilestoneStatusPending,
		})
	}

	campaign, err := p.store.CreateCampaign(ctx, store.Campaign{
		Title:        params.Title,
		Description:  params.Description,
		Type:         params.Type,
		FundingType:  params.FundingType,
		Status:       store.CampaignStatusPendingReview,
		CreatorID:    creator.ID,
		CreatorName:  creator.Name,
		TargetAmount: params.TargetAmount,
		ReviewFee:    params.ReviewFee,
		Category:     params.Category,
		Tags:         params.Tags,
		Milestones:   embedded,
		StartDate:    params.StartDate,
		EndDate:      params.EndDate,
		CoverImage:   params.CoverImage,
		Gallery:      params.Gallery,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to create campaign", err)
		return store.Campaign{}, err
	}

	if err := p.store.IncrementCampaignsCreated(ctx, creator.ID, 1); err != nil {
		p.logger.Error(ctx, "failed to bump creator campaign counter", err)
	}
	return campaign, nil
}

// Get returns a campaign, counting the lookup as a view.
func (p *CampaignProcessor) Get(ctx context.Context, id primitive.ObjectID) (store.Campaign, error) {
	campaign, err := p.store.GetCampaignAndIncrementViews(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to get campaign", err)
		return store.Campaign{}, err
	}
	return campaign, nil
}

// List returns a filtered, paginated campaign listing.
func (p *CampaignProcessor) List(ctx context.Context, params store.ListCampaignsParams) ([]store.Campaign, int64, error) {
	campaigns, total, err := p.store.ListCampaigns(ctx, params)
	if err != nil {
		p.logger.Error(ctx, "failed to list campaigns", err)
		return nil, 0, err
	}
	return campaigns, total, nil
}

// Update edits campaign content. Only the creator (or an admin) may edit, and
// only before fundraising starts.
func (p *CampaignProcessor) Update(ctx context.Context, actor Actor, id primitive.ObjectID, params store.UpdateCampaignParams) (store.Campaign, error) {
	campaign, err := p.store.GetCampaignByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to get campaign", err)
		return store.Campaign{}, err
	}
	if campaign.CreatorID != actor.ID && !actor.isAdmin() {
		return store.Campaign{}, ErrNotCampaignOwner
	}
	switch campaign.Status {
	case store.CampaignStatusFundraising, store.CampaignStatusImplementation, store.CampaignStatusCompleted:
		return store.Campaign{}, ErrCampaignNotEditable
	}

	startDate := campaign.StartDate
	if params.StartDate != nil {
		startDate = *params.StartDate
	}
	endDate := campaign.EndDate
	if params.EndDate != nil {
		endDate = *params.EndDate
	}
	if !endDate.After(startDate) {
		return store.Campaign{}, ErrEndDateBeforeStart
	}

	updated, err := p.store.UpdateCampaign(ctx, id, params)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to update campaign", err)
		return store.Campaign{}, err
	}
	return updated, nil
}

// Delete removes a campaign. Campaigns that have collected donations are kept
// for accountability and cannot be deleted.
func (p *CampaignProcessor) Delete(ctx context.Context, actor Actor, id primitive.ObjectID) error {
	campaign, err := p.store.GetCampaignByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to get campaign", err)
		return err
	}
	if campaign.CreatorID != actor.ID && !actor.isAdmin() {
		return ErrNotCampaignOwner
	}
	if campaign.CurrentAmount > 0 {
		return ErrCampaignHasDonations
	}

	if err := p.store.DeleteCampaign(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to delete campaign", err)
		return err
	}
	if err := p.store.IncrementCampaignsCreated(ctx, campaign.CreatorID, -1); err != nil {
		p.logger.Error(ctx, "failed to bump creator campaign counter", err)
	}
	return nil
}

// Review records an admin decision on a pending_review campaign.
func (p *CampaignProcessor) Review(ctx context.Context, actor Actor, id primitive.ObjectID, approve bool, comments, rejectionReason string) (store.Campaign, error) {
	if !actor.isAdmin() {
		return store.Campaign{}, ErrForbidden
	}
	if !approve && rejectionReason == "" {
		return store.Campaign{}, ErrRejectionReasonRequired
	}

	campaign, err := p.store.GetCampaignByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to get campaign", err)
		return store.Campaign{}, err
	}
	if campaign.Status != store.CampaignStatusPendingReview {
		return store.Campaign{}, ErrInvalidStatusTransition
	}

	reviewer, err := p.store.GetUserByID(ctx, actor.ID)
	if err != nil {
		p.logger.Error(ctx, "failed to load reviewer", err)
		return store.Campaign{}, err
	}

	status := store.ReviewStatusApproved
	if !approve {
		status = store.ReviewStatusRejected
	}
	review := store.CampaignReview{
		ReviewerID:   reviewer.ID,
		ReviewerName: reviewer.Name,
		Status:       status,
		Comments:     comments,
		ReviewedAt:   time.Now().UTC(),
		Priority:     reviewPriority(campaign.ReviewFee),
	}

	updated, err := p.store.SetCampaignReview(ctx, id, review, rejectionReason)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Lost the race with another reviewer.
			return store.Campaign{}, ErrInvalidStatusTransition
		}
		p.logger.Error(ctx, "failed to set campaign review", err)
		return store.Campaign{}, err
	}
	return updated, nil
}

// Transition moves the campaign along its lifecycle. The creator drives
// fundraising, implementation and completion; cancellation is allowed while
// no funds are in play.
func (p *CampaignProcessor) Transition(ctx context.Context, actor Actor, id primitive.ObjectID, to store.CampaignStatus) (store.Campaign, error) {
	campaign, err := p.store.GetCampaignByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to get campaign", err)
		return store.Campaign{}, err
	}
	if campaign.CreatorID != actor.ID && !actor.isAdmin() {
		return store.Campaign{}, ErrNotCampaignOwner
	}

	from := campaign.Status
	if !transitionAllowed(from, to) {
		return store.Campaign{}, ErrInvalidStatusTransition
	}

	var updated store.Campaign
	if from == store.CampaignStatusFundraising && to == store.CampaignStatusImplementation {
		updated, err = p.store.StartImplementation(ctx, id)
	} else {
		updated, err = p.store.TransitionCampaignStatus(ctx, id, from, to)
	}
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Status changed underneath us.
			return store.Campaign{}, ErrInvalidStatusTransition
		}
		p.logger.Error(ctx, "failed to transition campaign", err)
		return store.Campaign{}, err
	}
	return updated, nil
}

// transitionAllowed is the campaign lifecycle table. Review decisions go
// through Review, not here.
func transitionAllowed(from, to store.CampaignStatus) bool {
	switch from {
	case store.CampaignStatusApproved:
		return to == store.CampaignStatusFundraising || to == store.CampaignStatusCancelled
	case store.CampaignStatusPendingReview:
		return to == store.CampaignStatusCancelled
	case store.CampaignStatusFundraising:
		return to == store.CampaignStatusImplementation
	case store.CampaignStatusImplementation:
		return to == store.CampaignStatusCompleted
	default:
		return false
	}
}

// Follow subscribes a user to campaign updates.
func (p *CampaignProcessor) Follow(ctx context.Context, userID, campaignID primitive.ObjectID) error {
	if _, err := p.store.GetCampaignByID(ctx, campaignID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to get campaign", err)
		return err
	}
	if err := p.store.FollowCampaign(ctx, campaignID, userID); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return ErrAlreadyFollowed
		}
		p.logger.Error(ctx, "failed to follow campaign", err)
		return err
	}
	return nil
}

// Unfollow removes the subscription.
func (p *CampaignProcessor) Unfollow(ctx context.Context, userID, campaignID primitive.ObjectID) error {
	if err := p.store.UnfollowCampaign(ctx, campaignID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFollowed
		}
		p.logger.Error(ctx, "failed to unfollow campaign", err)
		return err
	}
	return nil
}

// ListFollowers returns who follows a campaign.
func (p *CampaignProcessor) ListFollowers(ctx context.Context, campaignID primitive.ObjectID, page, pageSize int) ([]store.CampaignFollow, int64, error) {
	follows, total, err := p.store.ListCampaignFollowers(ctx, campaignID, page, pageSize)
	if err != nil {
		p.logger.Error(ctx, "failed to list campaign followers", err)
		return nil, 0, err
	}
	return follows, total, nil
}

// ListFollowed returns the campaigns a user follows.
func (p *CampaignProcessor) ListFollowed(ctx context.Context, userID primitive.ObjectID, page, pageSize int) ([]store.CampaignFollow, int64, error) {
	follows, total, err := p.store.ListFollowedCampaigns(ctx, userID, page, pageSize)
	if err != nil {
		p.logger.Error(ctx, "failed to list followed campaigns", err)
		return nil, 0, err
	}
	return follows, total, nil
}

// ReviewQueue returns pending campaigns for admins, highest fee first.
func (p *CampaignProcessor) ReviewQueue(ctx context.Context, actor Actor) ([]store.Campaign, error) {
	if !actor.isAdmin() {
		return nil, ErrForbidden
	}
	campaigns, err := p.store.ListReviewQueue(ctx)
	if err != nil {
		p.logger.Error(ctx, "failed to list review queue", err)
		return nil, err
	}
	return campaigns, nil
}

// Statistics returns platform-wide campaign aggregates.
func (p *CampaignProcessor) Statistics(ctx context.Context) (store.CampaignStatistics, error) {
	stats, err := p.store.GetCampaignStatistics(ctx)
	if err != nil {
		p.logger.Error(ctx, "failed to get campaign statistics", err)
		return store.CampaignStatistics{}, err
	}
	return stats, nil
}
