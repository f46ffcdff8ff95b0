package api

// User is a registered account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt"`
}

// Membership is the caller's standing in one organization.
type Membership struct {
	OrgID    string `json:"orgId"`
	OrgName  string `json:"orgName"`
	Role     string `json:"role"`
	JoinedAt int64  `json:"joinedAt"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries a token with no active organization unless the
// user belongs to exactly one, in which case it is selected.
type LoginResponse struct {
	User        *User         `json:"user"`
	Token       string        `json:"token"`
	ActiveOrgID string        `json:"activeOrgId,omitempty"`
	Memberships []*Membership `json:"memberships"`
}

type ListMembershipsRequest struct{}

type ListMembershipsResponse struct {
	Memberships []*Membership `json:"memberships"`
	ActiveOrgID string        `json:"activeOrgId,omitempty"`
}

type SwitchOrganizationRequest struct {
	OrgID string `json:"orgId"`
}

type SwitchOrganizationResponse struct {
	Token      string      `json:"token"`
	Membership *Membership `json:"membership"`
}

// Todo is one item on an organization's shared list.
type Todo struct {
	ID        string `json:"id"`
	OrgID     string `json:"orgId"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	CreatedAt int64  `json:"createdAt"`
}

type ListTodosRequest struct{}

type ListTodosResponse struct {
	Todos []*Todo `json:"todos"`
}

type CreateTodoRequest struct {
	Text string `json:"text"`
}

type CreateTodoResponse struct {
	Todo *Todo `json:"todo"`
}

type ToggleTodoRequest struct {
	TodoID string `json:"todoId"`
}

type ToggleTodoResponse struct {
	Todo *Todo `json:"todo"`
}

type DeleteTodoRequest struct {
	TodoID string `json:"todoId"`
}

type DeleteTodoResponse struct{}

// Pet is the organization's virtual pet.
type Pet struct {
	OrgID         string `json:"orgId"`
	Hunger        int32  `json:"hunger"`
	Age           int32  `json:"age"`
	Stage         string `json:"stage"`
	FeedCount     int32  `json:"feedCount"`
	Species       string `json:"species"`
	Color         string `json:"color"`
	LastFedAt     int64  `json:"lastFedAt"`
	LastCheckedAt int64  `json:"lastCheckedAt"`
}

type GetPetRequest struct{}

type GetPetResponse struct {
	Pet *Pet `json:"pet"`
}

type FeedPetRequest struct{}

type FeedPetResponse struct {
	Pet        *Pet   `json:"pet"`
	Transition string `json:"transition"`
}

type UpdatePetHungerRequest struct{}

type UpdatePetHungerResponse struct {
	Pet        *Pet   `json:"pet"`
	Transition string `json:"transition"`
}

// HistoryEntry is one audit record. Metadata is a JSON object.
type HistoryEntry struct {
	ID              string `json:"id"`
	InteractionType string `json:"interactionType"`
	EntityType      string `json:"entityType"`
	EntityID        string `json:"entityId"`
	ActorID         string `json:"actorId"`
	ActorName       string `json:"actorName"`
	ActorRole       string `json:"actorRole"`
	Metadata        string `json:"metadata"`
	CreatedAt       int64  `json:"createdAt"`
}

type ListHistoryRequest struct {
	Limit int32 `json:"limit,omitempty"`
}

type ListHistoryResponse struct {
	Entries []*HistoryEntry `json:"entries"`
}

// Message is a chat line.
type Message struct {
	ID         string `json:"id"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	Body       string `json:"body"`
	CreatedAt  int64  `json:"createdAt"`
}

type ListMessagesRequest struct {
	Limit int32 `json:"limit,omitempty"`
}

type ListMessagesResponse struct {
	Messages []*Message `json:"messages"`
}

type PostMessageRequest struct {
	Body string `json:"body"`
}

type PostMessageResponse struct {
	Message *Message `json:"message"`
}

// WatchRequest opens a live stream for the caller's active organization.
type WatchRequest struct{}

// Snapshots are full replacements of the watched resource; TakenAt is a
// Unix timestamp in milliseconds.

type TodosSnapshot struct {
	Todos   []*Todo `json:"todos"`
	TakenAt int64   `json:"takenAt"`
}

type PetSnapshot struct {
	Pet     *Pet  `json:"pet"`
	TakenAt int64 `json:"takenAt"`
}

type MessagesSnapshot struct {
	Messages []*Message `json:"messages"`
	TakenAt  int64      `json:"takenAt"`
}

type HistorySnapshot struct {
	Entries []*HistoryEntry `json:"entries"`
	TakenAt int64           `json:"takenAt"`
}
