// Package routes provides shared API route constants used across the SDK
// and CLI to prevent path mismatches.
package routes

const (
	// AuthUsersLogin exchanges volunteer credentials for a token bundle.
	AuthUsersLogin = "/auth/users/login"

	// AuthNGOsLogin exchanges organisation credentials for a token bundle.
	AuthNGOsLogin = "/auth/ngos/login"

	// AuthUsersRegister creates a volunteer account.
	AuthUsersRegister = "/auth/users/register"

	// AuthNGOsRegister creates an organisation account.
	AuthNGOsRegister = "/auth/ngos/register"

	// AuthRefresh swaps a refresh token for a new token bundle.
	AuthRefresh = "/auth/refresh" // #nosec G101 -- route path, not a credential

	// AuthLogout revokes a refresh token server-side.
	AuthLogout = "/auth/logout"

	// AuthMe returns the current authenticated profile.
	AuthMe = "/auth/me"

	// Projects is the project collection (list + create).
	Projects = "/projects"

	// ProjectByID addresses a single project.
	ProjectByID = "/projects/{id}"

	// Applications is the application collection (apply).
	Applications = "/applications"

	// ApplicationByID addresses a single application.
	ApplicationByID = "/applications/{id}"

	// UserByID addresses a volunteer profile.
	UserByID = "/users/{id}"

	// NGOByID addresses an organisation profile.
	NGOByID = "/ngos/{id}"

	// Skills is the skill reference list.
	Skills = "/skills"

	// SkillByID addresses a single skill.
	SkillByID = "/skills/{id}"

	// Categories is the category reference list.
	Categories = "/categories"

	// CategoryByID addresses a single category.
	CategoryByID = "/categories/{id}"

	// Notifications is the notification collection for the current identity.
	Notifications = "/notifications"

	// NotificationByID addresses a single notification.
	NotificationByID = "/notifications/{id}"

	// NotificationsUserStream is the SSE endpoint pushing live notification
	// events for a volunteer.
	NotificationsUserStream = "/notifications/users/{id}/stream"

	// NotificationsNGOStream is the SSE endpoint pushing live notification
	// events for an organisation.
	NotificationsNGOStream = "/notifications/ngos/{id}/stream"

	// Images accepts multipart uploads and returns the stored image URL.
	Images = "/images"
)
