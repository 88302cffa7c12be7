package store

// UserRole is the role a user acts under.
type UserRole string

const (
	UserRoleUser         UserRole = "user"
	UserRoleAdmin        UserRole = "admin"
	UserRoleDonor        UserRole = "donor"
	UserRoleOrganization UserRole = "organization"
)

// UserStatus is the account standing of a user.
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusInactive  UserStatus = "inactive"
	UserStatusSuspended UserStatus = "suspended"
)

// CampaignType distinguishes regular campaigns from emergency appeals.
type CampaignType string

const (
	CampaignTypeNormal    CampaignType = "normal"
	CampaignTypeEmergency CampaignType = "emergency"
)

// FundingType controls whether funds are released only on reaching the target.
type FundingType string

const (
	FundingTypeFixed    FundingType = "fixed"
	FundingTypeFlexible FundingType = "flexible"
)

// CampaignStatus is a state in the campaign lifecycle.
type CampaignStatus string

const (
	CampaignStatusPendingReview  CampaignStatus = "pending_review"
	CampaignStatusApproved       CampaignStatus = "approved"
	CampaignStatusRejected       CampaignStatus = "rejected"
	CampaignStatusFundraising    CampaignStatus = "fundraising"
	CampaignStatusImplementation CampaignStatus = "implementation"
	CampaignStatusCompleted      CampaignStatus = "completed"
	CampaignStatusCancelled      CampaignStatus = "cancelled"
)

// MilestoneStatus tracks a milestone through execution and verification.
type MilestoneStatus string

const (
	MilestoneStatusPending   MilestoneStatus = "pending"
	MilestoneStatusActive    MilestoneStatus = "active"
	MilestoneStatusCompleted MilestoneStatus = "completed"
	MilestoneStatusVerified  MilestoneStatus = "verified"
)

// ReviewStatus is the outcome of a campaign review.
type ReviewStatus string

const (
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// PostVisibility controls who can see a post.
type PostVisibility string

const (
	PostVisibilityPublic    PostVisibility = "public"
	PostVisibilityFollowers PostVisibility = "followers"
	PostVisibilityPrivate   PostVisibility = "private"
)

// ShareType distinguishes plain reposts from quote shares.
type ShareType string

const (
	ShareTypeRepost ShareType = "repost"
	ShareTypeQuote  ShareType = "quote"
)

// MediaType is the broad category of an uploaded file.
type MediaType string

const (
	MediaTypeImage    MediaType = "image"
	MediaTypeVideo    MediaType = "video"
	MediaTypeDocument MediaType = "document"
	MediaTypeAudio    MediaType = "audio"
)

// MediaProvider identifies the blob storage backend holding a file.
type MediaProvider string

const (
	MediaProviderCloudinary  MediaProvider = "cloudinary"
	MediaProviderGoogleCloud MediaProvider = "google_cloud"
)

// MediaStatus is the upload lifecycle state of a media record.
type MediaStatus string

const (
	MediaStatusUploading  MediaStatus = "uploading"
	MediaStatusProcessing MediaStatus = "processing"
	MediaStatusReady      MediaStatus = "ready"
	MediaStatusFailed     MediaStatus = "failed"
	MediaStatusDeleted    MediaStatus = "deleted"
)

// DonationStatus is the payment state of a donation.
type DonationStatus string

const (
	DonationStatusPending   DonationStatus = "pending"
	DonationStatusCompleted DonationStatus = "completed"
	DonationStatusFailed    DonationStatus = "failed"
	DonationStatusRefunded  DonationStatus = "refunded"
)

// PaymentMethod records how a donation was paid.
type PaymentMethod string

const (
	PaymentMethodBankTransfer  PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard    PaymentMethod = "credit_card"
	PaymentMethodDigitalWallet PaymentMethod = "digital_wallet"
	PaymentMethodCash          PaymentMethod = "cash"
)

// DisbursementStatus is the decision state of a milestone disbursement.
type DisbursementStatus string

const (
	DisbursementStatusPending   DisbursementStatus = "pending"
	DisbursementStatusApproved  DisbursementStatus = "approved"
	DisbursementStatusDisbursed DisbursementStatus = "disbursed"
	DisbursementStatusRejected  DisbursementStatus = "rejected"
)

// ExpenseStatus is the decision state of an expense report.
type ExpenseStatus string

const (
	ExpenseStatusSubmitted ExpenseStatus = "submitted"
	ExpenseStatusAccepted  ExpenseStatus = "accepted"
	ExpenseStatusRejected  ExpenseStatus = "rejected"
)
