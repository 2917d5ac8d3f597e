package docs

// @title           SafeBike Web Client API
// @version         1.0
// @description     JSON endpoints of the SafeBike courier web client. The HTML screens are served next to them and are not described here.

// @contact.name   SafeBike Support
// @contact.email  support@safebike.example

// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /

// Tab sync godoc
// @Summary      Tab sync websocket
// @Description  Upgrades to a websocket that receives {"type":"session_changed"|"packages_changed","session":"…","packageId":"…","at":"…"} messages. Tabs reload when a message arrives.
// @Tags         Session
// @Success      101  "Switching Protocols"
// @Failure      400  {string}  string  "session required"
// @Router       /ws/session [get]

// Metrics godoc
// @Summary      Prometheus metrics
// @Tags         Health
// @Produce      plain
// @Success      200  {string}  string  "Prometheus text exposition"
// @Router       /metrics [get]
