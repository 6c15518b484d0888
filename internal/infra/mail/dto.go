package mail

type HandoffEmailData struct {
	Name        string
	Phone       string
	Email       string
	ServiceType string
	City        string
	StartDate   string
	EndDate     string
	PartySize   string
	Language    string
	DealID      string
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}
