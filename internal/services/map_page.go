package services

// mapPageHTML is the Leaflet page served at /. It draws the persisted
// track as a polyline and follows new points via the SSE stream.
const mapPageHTML = `<!DOCTYPE html>
<html>
<head>
	<meta charset="utf-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>trackme</title>
	<link rel="stylesheet" href="https://unpkg.com/leaflet@1.9.4/dist/leaflet.css">
	<script src="https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"></script>
	<style>
		html, body, #map { height: 100%; margin: 0; }
	</style>
</head>
<body>
	<div id="map"></div>
	<script>
	(function () {
		const map = L.map('map');
		L.tileLayer('https://tile.openstreetmap.org/{z}/{x}/{y}.png', {
			maxZoom: 19,
			attribution: '&copy; OpenStreetMap contributors'
		}).addTo(map);

		const line = L.polyline([], { color: 'red' }).addTo(map);

		fetch('/api/track')
			.then((resp) => resp.json())
			.then((points) => {
				const latLngs = points.map((p) => [p.latitude, p.longitude]);
				line.setLatLngs(latLngs);
				if (latLngs.length > 0) {
					map.fitBounds(line.getBounds(), { maxZoom: 16 });
				} else {
					map.setView([0, 0], 2);
				}
			});

		const live = new EventSource('/api/track/live');
		live.addEventListener('point', (ev) => {
			const p = JSON.parse(ev.data);
			line.addLatLng([p.latitude, p.longitude]);
			map.panTo([p.latitude, p.longitude]);
		});
	})();
	</script>
</body>
</html>
`
