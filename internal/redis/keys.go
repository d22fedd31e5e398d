package redisx

import "fmt"

const ns = "boxoffice:v1"

func KeyOrderView(ref string) string {
	return fmt.Sprintf("%s:order:%s:view", ns, ref)
}

func KeyRateLimitPrefix(scope string) string {
	return fmt.Sprintf("%s:rl:%s", ns, scope)
}

func KeyWebhookEvent(eventID string) string {
	return fmt.Sprintf("%s:webhook:event:%s", ns, eventID)
}

func ChannelOrdersChanged() string {
	return ns + ":orders:changed"
}
