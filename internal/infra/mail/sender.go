package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

type AlertSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
	OpsTo    string
}

func NewAlertSender(host string, port int, user, password, from, opsTo string) *AlertSender {
	return &AlertSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		OpsTo:    opsTo,
	}
}

// SendCapacityAlert tells the operations inbox that follow-up work was
// assigned past a volunteer's capacity and needs rebalancing.
func (s *AlertSender) SendCapacityAlert(volunteerName string, current, capacity int) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.OpsTo)
	m.SetHeader("Subject", fmt.Sprintf("Follow-up capacity exceeded: %s", volunteerName))
	m.SetBody("text/plain", fmt.Sprintf(
		"Volunteer %s now carries %d active follow-ups against a capacity of %d.\n"+
			"The latest assignment was made anyway so the member is covered; please rebalance.\n",
		volunteerName, current, capacity,
	))

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("send capacity alert: %w", err)
	}
	return nil
}
