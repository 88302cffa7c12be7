package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account on the platform. Password is empty for accounts created
// through social sign-in only.
type User struct {
	ID                    primitive.ObjectID    `bson:"_id,omitempty" json:"id"`
	Name                  string                `bson:"name" json:"name"`
	Email                 string                `bson:"email" json:"email"`
	Password              string                `bson:"password,omitempty" json:"-"`
	Phone                 string                `bson:"phone,omitempty" json:"phone,omitempty"`
	Address               string                `bson:"address,omitempty" json:"address,omitempty"`
	Role                  UserRole              `bson:"role" json:"role"`
	Status                UserStatus            `bson:"status" json:"status"`
	Avatar                string                `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Bio                   string                `bson:"bio,omitempty" json:"bio,omitempty"`
	IsVerified            bool                  `bson:"isVerified" json:"isVerified"`
	LastLoginAt           *time.Time            `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
	RefreshToken          string                `bson:"refreshToken,omitempty" json:"-"`
	RefreshTokenExpiresAt *time.Time            `bson:"refreshTokenExpiresAt,omitempty" json:"-"`
	Reputation            int                   `bson:"reputation" json:"reputation"`
	TotalDonated          float64               `bson:"totalDonated" json:"totalDonated"`
	TotalCampaignsCreated int                   `bson:"totalCampaignsCreated" json:"totalCampaignsCreated"`
	SuccessfulCampaigns   int                   `bson:"successfulCampaigns" json:"successfulCampaigns"`
	GoogleProvider        *GoogleProviderInfo   `bson:"googleProvider,omitempty" json:"googleProvider,omitempty"`
	FacebookProvider      *FacebookProviderInfo `bson:"facebookProvider,omitempty" json:"facebookProvider,omitempty"`
	CreatedAt             time.Time             `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time             `bson:"updatedAt" json:"updatedAt"`
}

// GoogleProviderInfo is the identity captured from a verified Google ID token.
type GoogleProviderInfo struct {
	Sub     string `bson:"sub" json:"sub"`
	Email   string `bson:"email" json:"email"`
	Name    string `bson:"name,omitempty" json:"name,omitempty"`
	Picture string `bson:"picture,omitempty" json:"picture,omitempty"`
}

// FacebookProviderInfo is the identity captured from the Facebook Graph API.
type FacebookProviderInfo struct {
	ID      string `bson:"id" json:"id"`
	Email   string `bson:"email" json:"email"`
	Name    string `bson:"name,omitempty" json:"name,omitempty"`
	Picture string `bson:"picture,omitempty" json:"picture,omitempty"`
}

// Milestone is an execution phase of a campaign, embedded in the campaign
// document. Budgets across milestones add up to the campaign target.
type Milestone struct {
	Title                string          `bson:"title" json:"title"`
	Description          string          `bson:"description,omitempty" json:"description,omitempty"`
	Budget               float64         `bson:"budget" json:"budget"`
	DurationDays         int             `bson:"durationDays" json:"durationDays"`
	Status               MilestoneStatus `bson:"status" json:"status"`
	StartedAt            *time.Time      `bson:"startedAt,omitempty" json:"startedAt,omitempty"`
	DueDate              *time.Time      `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	CompletedAt          *time.Time      `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	VerifiedAt           *time.Time      `bson:"verifiedAt,omitempty" json:"verifiedAt,omitempty"`
	DisbursedAmount      float64         `bson:"disbursedAmount" json:"disbursedAmount"`
	ActualSpending       float64         `bson:"actualSpending" json:"actualSpending"`
	ProgressPercentage   float64         `bson:"progressPercentage" json:"progressPercentage"`
	ProgressUpdatesCount int             `bson:"progressUpdatesCount" json:"progressUpdatesCount"`
	Documents            []string        `bson:"documents,omitempty" json:"documents,omitempty"`
}

// CampaignReview is the reviewer decision snapshot stored on the campaign.
type CampaignReview struct {
	ReviewerID   primitive.ObjectID `bson:"reviewerId" json:"reviewerId"`
	ReviewerName string             `bson:"reviewerName" json:"reviewerName"`
	Status       ReviewStatus       `bson:"status" json:"status"`
	Comments     string             `bson:"comments,omitempty" json:"comments,omitempty"`
	ReviewedAt   time.Time          `bson:"reviewedAt" json:"reviewedAt"`
	Priority     int                `bson:"priority" json:"priority"`
}

// Campaign is a fundraising campaign with embedded milestones.
type Campaign struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title           string             `bson:"title" json:"title"`
	Description     string             `bson:"description" json:"description"`
	Type            CampaignType       `bson:"type" json:"type"`
	FundingType     FundingType        `bson:"fundingType" json:"fundingType"`
	Status          CampaignStatus     `bson:"status" json:"status"`
	CreatorID       primitive.ObjectID `bson:"creatorId" json:"creatorId"`
	CreatorName     string             `bson:"creatorName" json:"creatorName"`
	TargetAmount    float64            `bson:"targetAmount" json:"targetAmount"`
	CurrentAmount   float64            `bson:"currentAmount" json:"currentAmount"`
	DonorCount      int                `bson:"donorCount" json:"donorCount"`
	ReviewFee       float64            `bson:"reviewFee" json:"reviewFee"`
	Category        string             `bson:"category" json:"category"`
	Tags            []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	Milestones      []Milestone        `bson:"milestones" json:"milestones"`
	Review          *CampaignReview    `bson:"review,omitempty" json:"review,omitempty"`
	StartDate       time.Time          `bson:"startDate" json:"startDate"`
	EndDate         time.Time          `bson:"endDate" json:"endDate"`
	ApprovedAt      *time.Time         `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	CompletedAt     *time.Time         `bson:"completedAt,omitempty" json:"completedAt,omitempty"`
	RejectionReason string             `bson:"rejectionReason,omitempty" json:"rejectionReason,omitempty"`
	IsFeatured      bool               `bson:"isFeatured" json:"isFeatured"`
	ViewCount       int                `bson:"viewCount" json:"viewCount"`
	ShareCount      int                `bson:"shareCount" json:"shareCount"`
	FollowersCount  int                `bson:"followersCount" json:"followersCount"`
	CoverImage      string             `bson:"coverImage,omitempty" json:"coverImage,omitempty"`
	Gallery         []string           `bson:"gallery,omitempty" json:"gallery,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CampaignFollow pairs a user with a campaign they follow.
type CampaignFollow struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CampaignID primitive.ObjectID `bson:"campaignId" json:"campaignId"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// ProgressMetadata carries the free-form narrative of a progress update.
type ProgressMetadata struct {
	WorkCompleted   string `bson:"workCompleted,omitempty" json:"workCompleted,omitempty"`
	ChallengesFaced string `bson:"challengesFaced,omitempty" json:"challengesFaced,omitempty"`
	NextSteps       string `bson:"nextSteps,omitempty" json:"nextSteps,omitempty"`
	ResourcesUsed   string `bson:"resourcesUsed,omitempty" json:"resourcesUsed,omitempty"`
}

// ProgressUpdate is an append-only report against a campaign milestone.
// Campaign and milestone titles are denormalized at write time.
type ProgressUpdate struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CampaignID         primitive.ObjectID `bson:"campaignId" json:"campaignId"`
	CampaignTitle      string             `bson:"campaignTitle" json:"campaignTitle"`
	MilestoneIndex     int                `bson:"milestoneIndex" json:"milestoneIndex"`
	MilestoneTitle     string             `bson:"milestoneTitle" json:"milestoneTitle"`
	UpdatedBy          primitive.ObjectID `bson:"updatedBy" json:"updatedBy"`
	UpdatedByName      string             `bson:"updatedByName" json:"updatedByName"`
	Description        string             `bson:"description" json:"description"`
	ProgressPercentage float64            `bson:"progressPercentage" json:"progressPercentage"`
	Images             []string           `bson:"images,omitempty" json:"images,omitempty"`
	Metadata           *ProgressMetadata  `bson:"metadata,omitempty" json:"metadata,omitempty"`
	IsVisible          bool               `bson:"isVisible" json:"isVisible"`
	CreatedAt          time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CreatorSnapshot is the denormalized author info embedded in a post.
type CreatorSnapshot struct {
	Name       string `bson:"name" json:"name"`
	Email      string `bson:"email" json:"email"`
	Avatar     string `bson:"avatar,omitempty" json:"avatar,omitempty"`
	Reputation int    `bson:"reputation" json:"reputation"`
}

// PostContent is the body of a post.
type PostContent struct {
	Text   string   `bson:"text" json:"text"`
	Images []string `bson:"images,omitempty" json:"images,omitempty"`
	Videos []string `bson:"videos,omitempty" json:"videos,omitempty"`
	Links  []string `bson:"links,omitempty" json:"links,omitempty"`
}

// PostEngagement holds the denormalized interaction counters of a post.
// Each counter is only ever mutated in the same transaction as its backing
// interaction record.
type PostEngagement struct {
	LikesCount    int `bson:"likesCount" json:"likesCount"`
	CommentsCount int `bson:"commentsCount" json:"commentsCount"`
	SharesCount   int `bson:"sharesCount" json:"sharesCount"`
	ViewsCount    int `bson:"viewsCount" json:"viewsCount"`
}

// Post is a social feed entry, optionally linked to a campaign.
type Post struct {
	ID         primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CreatorID  primitive.ObjectID  `bson:"creatorId" json:"creatorId"`
	Creator    CreatorSnapshot     `bson:"creator" json:"creator"`
	Content    PostContent         `bson:"content" json:"content"`
	CampaignID *primitive.ObjectID `bson:"campaignId,omitempty" json:"campaignId,omitempty"`
	Engagement PostEngagement      `bson:"engagement" json:"engagement"`
	Visibility PostVisibility      `bson:"visibility" json:"visibility"`
	Hashtags   []string            `bson:"hashtags,omitempty" json:"hashtags,omitempty"`
	Mentions   []string            `bson:"mentions,omitempty" json:"mentions,omitempty"`
	IsDeleted  bool                `bson:"isDeleted" json:"-"`
	CreatedAt  time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// PostLike records that a user liked a post. Unique per (post, user).
type PostLike struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID `bson:"postId" json:"postId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// PostShare records a repost or quote share. Unique per (post, user).
type PostShare struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID `bson:"postId" json:"postId"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	ShareType ShareType          `bson:"shareType" json:"shareType"`
	Text      string             `bson:"text,omitempty" json:"text,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// PostComment is a comment on a post, optionally nested one level via
// ParentCommentID.
type PostComment struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PostID          primitive.ObjectID  `bson:"postId" json:"postId"`
	UserID          primitive.ObjectID  `bson:"userId" json:"userId"`
	UserName        string              `bson:"userName" json:"userName"`
	Content         string              `bson:"content" json:"content"`
	ParentCommentID *primitive.ObjectID `bson:"parentCommentId,omitempty" json:"parentCommentId,omitempty"`
	RepliesCount    int                 `bson:"repliesCount" json:"repliesCount"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// PostView records a unique view of a post. ViewerKey is the user ID hex for
// authenticated viewers or the session ID for anonymous ones, giving the
// unique index a single field to pivot on.
type PostView struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID  `bson:"postId" json:"postId"`
	UserID    *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	SessionID string              `bson:"sessionId,omitempty" json:"sessionId,omitempty"`
	ViewerKey string              `bson:"viewerKey" json:"-"`
	ViewedAt  time.Time           `bson:"viewedAt" json:"viewedAt"`
}

// Media is an uploaded file tracked against its blob storage backend.
type Media struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"userId" json:"userId"`
	OriginalName string             `bson:"originalName" json:"originalName"`
	Filename     string             `bson:"filename" json:"filename"`
	Mimetype     string             `bson:"mimetype" json:"mimetype"`
	Size         int64              `bson:"size" json:"size"`
	Type         MediaType          `bson:"type" json:"type"`
	Provider     MediaProvider      `bson:"provider" json:"provider"`
	URL          string             `bson:"url" json:"url"`
	CloudPath    string             `bson:"cloudPath" json:"cloudPath"`
	Status       MediaStatus        `bson:"status" json:"status"`
	ThumbnailURL string             `bson:"thumbnailUrl,omitempty" json:"thumbnailUrl,omitempty"`
	Metadata     map[string]string  `bson:"metadata,omitempty" json:"metadata,omitempty"`
	Tags         []string           `bson:"tags,omitempty" json:"tags,omitempty"`
	IsPublic     bool               `bson:"isPublic" json:"isPublic"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Donation is a contribution to a campaign. DonorID is nil for anonymous
// donations.
type Donation struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CampaignID    primitive.ObjectID  `bson:"campaignId" json:"campaignId"`
	DonorID       *primitive.ObjectID `bson:"donorId,omitempty" json:"donorId,omitempty"`
	Amount        float64             `bson:"amount" json:"amount"`
	Message       string              `bson:"message,omitempty" json:"message,omitempty"`
	PaymentMethod PaymentMethod       `bson:"paymentMethod" json:"paymentMethod"`
	Status        DonationStatus      `bson:"status" json:"status"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Disbursement is a request to release a milestone budget to the creator.
type Disbursement struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	CampaignID     primitive.ObjectID  `bson:"campaignId" json:"campaignId"`
	MilestoneIndex int                 `bson:"milestoneIndex" json:"milestoneIndex"`
	Amount         float64             `bson:"amount" json:"amount"`
	Status         DisbursementStatus  `bson:"status" json:"status"`
	RequestedBy    primitive.ObjectID  `bson:"requestedBy" json:"requestedBy"`
	DecidedBy      *primitive.ObjectID `bson:"decidedBy,omitempty" json:"decidedBy,omitempty"`
	Notes          string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// ExpenseItem is a single line in an expense report.
type ExpenseItem struct {
	Description string  `bson:"description" json:"description"`
	Amount      float64 `bson:"amount" json:"amount"`
	Receipt     string  `bson:"receipt,omitempty" json:"receipt,omitempty"`
}

// ExpenseReport accounts for how a disbursed milestone budget was spent.
type ExpenseReport struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	DisbursementID primitive.ObjectID  `bson:"disbursementId" json:"disbursementId"`
	CampaignID     primitive.ObjectID  `bson:"campaignId" json:"campaignId"`
	MilestoneIndex int                 `bson:"milestoneIndex" json:"milestoneIndex"`
	Items          []ExpenseItem       `bson:"items" json:"items"`
	TotalSpent     float64             `bson:"totalSpent" json:"totalSpent"`
	Documents      []string            `bson:"documents,omitempty" json:"documents,omitempty"`
	Status         ExpenseStatus       `bson:"status" json:"status"`
	SubmittedBy    primitive.ObjectID  `bson:"submittedBy" json:"submittedBy"`
	DecidedBy      *primitive.ObjectID `bson:"decidedBy,omitempty" json:"decidedBy,omitempty"`
	CreatedAt      time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time           `bson:"updatedAt" json:"updatedAt"`
}
