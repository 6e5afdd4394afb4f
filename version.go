package sdk

// Version is the published SDK version.
// 0.3.0: Breaking - Identity is now an explicit tagged union built from the
// token's entityType claim; shape-probing helpers are gone.
// 0.2.0: Add Notifications.Watch with the shared NotificationCache and
// single-reconnect policy.
const Version = "0.3.0"
