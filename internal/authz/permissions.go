package authz

// Permission is an atomic named capability checked at role level.
type Permission string

// Organization permissions.
const (
	PermOrgView Permission = "org.view"
	PermOrgEdit Permission = "org.edit"
)

// User management permissions.
const (
	PermUsersView Permission = "users.view"
	PermUsersEdit Permission = "users.edit"
)

// Task management permissions.
const (
	PermTasksView   Permission = "tasks.view"
	PermTasksCreate Permission = "tasks.create"
	PermTasksEdit   Permission = "tasks.edit"
	PermTasksDelete Permission = "tasks.delete"
)

// Billing and notification permissions.
const (
	PermSubscriptionView  Permission = "subscription.view"
	PermNotificationsView Permission = "notifications.view"
	PermNotificationsSend Permission = "notifications.send"
)

// AllPermissions lists every permission known to the platform.
func AllPermissions() []Permission {
	return []Permission{
		PermOrgView,
		PermOrgEdit,
		PermUsersView,
		PermUsersEdit,
		PermTasksView,
		PermTasksCreate,
		PermTasksEdit,
		PermTasksDelete,
		PermSubscriptionView,
		PermNotificationsView,
		PermNotificationsSend,
	}
}
