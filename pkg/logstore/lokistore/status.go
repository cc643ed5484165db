package lokistore

import (
	"fmt"
	"net/http"
	"sync"
	"time"
)

type Reachability string

const (
	ReachableStatus   Reachability = "reachable"
	UnreachableStatus Reachability = "unreachable"
)

var (
	singleton   Reachability
	singletonLk sync.Mutex

	lokiAddress string

	statusClient = &http.Client{
		Timeout: 2 * time.Second,
	}
)

// SetupLokiStatus starts a background probe of the backend's ready endpoint
// so readiness checks do not block on a live request.
func SetupLokiStatus(addr string) {
	lokiAddress = addr

	go func() {
		for {
			updateLokiStatus()

			time.Sleep(5 * time.Second)
		}
	}()
}

func GetLokiStatus() Reachability {
	singletonLk.Lock()
	defer singletonLk.Unlock()

	if singleton == "" {
		updateLokiStatus()
	}

	return singleton
}

func updateLokiStatus() {
	singletonLk.Lock()
	defer singletonLk.Unlock()

	if lokiAddress == "" {
		singleton = UnreachableStatus
		return
	}

	res, err := statusClient.Get(fmt.Sprintf("%s/ready", lokiAddress))

	if err != nil {
		singleton = UnreachableStatus
		return
	}

	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		singleton = UnreachableStatus
		return
	}

	singleton = ReachableStatus
}
