package observer

type EventType int

const (
	SubscriberJoinedEvent EventType = 1
	SubscriberLeftEvent   EventType = 2
)

type Event struct {
	E      EventType
	ChatID int64
	Name   string
}

func NewSubscriberJoinedEvent(chatID int64, name string) Event {
	return Event{E: SubscriberJoinedEvent, ChatID: chatID, Name: name}
}

func NewSubscriberLeftEvent(chatID int64) Event {
	return Event{E: SubscriberLeftEvent, ChatID: chatID}
}

type Observer interface {
	OnNotify(Event)
}

type Notifier interface {
	RegisterObserver(Observer)
}
