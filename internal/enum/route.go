package enum

type Route string

const (
	RouteProcess       Route = "process"
	RouteSkip          Route = "skip"
	RouteRedirectReply Route = "redirect_reply"
	RouteRedirectOther Route = "redirect_other"
)

func (t Route) String() string {
	return string(t)
}
