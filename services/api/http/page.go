package http

import (
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/incidents"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/models"
	"github.com/02loveslollipop/ecosense-dashboard/services/api/internal/views"
)

const pageTableRows = 20

var pageFuncs = template.FuncMap{
	"upper": strings.ToUpper,
	"statusText": func(st views.Status) string {
		if st.Message == "" {
			return "Cargando datos..."
		}
		return st.Message
	},
}

type pageData struct {
	Board        views.BoardView
	Rows         []views.TableRow
	Kinds        []models.SensorKind
	Incidents    []incidents.Incident
	NoAlerts     string
	NoIncidents  string
	IncidentsErr string
}

// handleIndex renders the dashboard page from the last published views.
func (s *Server) handleIndex(c *gin.Context) {
	board := s.deps.Board.View()
	rows, _ := views.Paginate(board.Table, 1, pageTableRows)

	data := pageData{
		Board:       board,
		Rows:        rows,
		Kinds:       models.Kinds,
		NoAlerts:    views.NoAlertsMessage,
		NoIncidents: noIncidentsMessage,
	}

	if s.deps.Incidents != nil {
		list, err := s.deps.Incidents.List(c.Request.Context(), incidents.AllStatuses)
		if err != nil {
			s.log.Error().Err(err).Msg("list incidents for page")
			data.IncidentsErr = "No se pudieron cargar las incidencias."
		}
		data.Incidents = list
	}

	c.HTML(http.StatusOK, "index", data)
}

var pageTemplate = template.Must(template.New("page").Funcs(pageFuncs).Parse(`{{define "index"}}<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>EcoSense - Monitoreo Ambiental</title>
<style>
body { font-family: system-ui, sans-serif; margin: 0; background: #f4f6f8; color: #1f2933; }
header { background: #1b4332; color: #fff; padding: 12px 24px; }
main { padding: 16px 24px; display: grid; gap: 16px; }
section { background: #fff; border-radius: 8px; padding: 12px 16px; }
.cards { display: flex; gap: 12px; }
.card { flex: 1; border-left: 6px solid #2d6a4f; padding: 8px 12px; background: #fff; border-radius: 6px; }
.card.alerta { border-color: #f59e0b; }
.card.peligro { border-color: #dc2626; }
.map { position: relative; height: 320px; background: #e9f5db; border-radius: 8px; }
.point { position: absolute; width: 14px; height: 14px; border-radius: 50%; background: #2d6a4f; transform: translate(-50%, -50%); }
.point.alerta { background: #f59e0b; }
.point.peligro { background: #dc2626; }
.info.danger { border: 2px solid #dc2626; }
table { width: 100%; border-collapse: collapse; }
td, th { padding: 4px 8px; border-bottom: 1px solid #e5e7eb; text-align: left; }
.status-peligro, .status-crítica { color: #dc2626; }
.status-alerta, .status-alta { color: #d97706; }
.status-cerrada { color: #6b7280; }
</style>
</head>
<body>
<header>
<h1>EcoSense</h1>
<p id="status">{{statusText .Board.Status}}</p>
</header>
<main>
<section class="cards">
{{range .Board.Cards}}<div class="card {{.Class}}"><h3>{{.Kind}}</h3><p>{{.Value}} {{.Unit}}</p><p>{{.Status}}</p><a href="/api/v1/core/detail/{{.Kind.Slug}}">Detalle</a></div>
{{end}}
</section>
<section>
<h2>Alertas</h2>
{{if .Board.Alerts}}<ul>{{range .Board.Alerts}}<li class="status-{{.Status.Class}}"><strong>{{.Sensor}}</strong> ({{.Location}}): {{.Message}}</li>{{end}}</ul>
{{else}}<p>{{.NoAlerts}}</p>{{end}}
</section>
<section>
<h2>Mapa de sensores</h2>
<div class="map">
{{range .Board.Map.Points}}<div class="point {{.Class}}" style="top: {{.Top}}; left: {{.Left}};" title="{{.ID}} {{.Location}} {{.Value}}"></div>
{{end}}
</div>
{{with .Board.Map.Focus}}<div class="info{{if .Danger}} danger{{end}}"><h3>{{.Title}}</h3><p>Valor: {{.Value}}</p><p>Estado: {{.Status}}</p><p>Ubicación: {{.Location}}</p></div>{{end}}
</section>
<section>
<h2>Historial</h2>
<table>
<thead><tr><th>Sensor</th><th>Fecha</th><th>Valor</th><th>Ubicación</th><th>Estado</th></tr></thead>
<tbody>
{{range .Rows}}<tr><td>{{.Kind}}</td><td>{{.Date}}</td><td>{{.Value}}</td><td>{{.Location}}</td><td class="status-{{.StatusClass}}">{{.Status}}</td></tr>
{{end}}
</tbody>
</table>
</section>
<section>
<h2>Incidencias</h2>
{{if .IncidentsErr}}<p>{{.IncidentsErr}}</p>{{end}}
{{range .Incidents}}<div class="incident">
<p><strong>ID:</strong> {{.ID}} | <strong>Tipo:</strong> {{.SensorKind}}</p>
<p><strong>Ubicación:</strong> {{.Location}}</p>
<p><strong>Prioridad:</strong> <span class="{{.Severity.Class}}">{{.Severity}}</span> <span class="{{.Status.Class}}">{{.Status}}</span></p>
<p><strong>Descripción:</strong> {{.Summary}}</p>
<p><small>Última actualización: {{.DisplayDate}}</small></p>
</div>
{{else}}<p>{{.NoIncidents}}</p>{{end}}
</section>
</main>
<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  var pending = null;
  ws.onmessage = function (ev) {
    var msg = JSON.parse(ev.data);
    if (msg.type === "status") {
      document.getElementById("status").textContent = msg.payload.message;
      return;
    }
    if (msg.type === "snapshot" || msg.type === "refreshing") {
      return;
    }
    if (!pending) {
      pending = setTimeout(function () { location.reload(); }, 500);
    }
  };
})();
</script>
</body>
</html>
{{end}}`))
