package standings

const standingsPageHTML = `<!doctype html>
<html>
<head><title>Standings</title></head>
<body>
<div class="container">
<table class="table table-hover table-results table-v2 standings">
  <thead>
    <tr>
      <th>Pos</th>
      <th>Driver</th>
      <th><a href="/championships/77/races?race_id=501">R1</a></th>
      <th><a href="/championships/77/races?race_id=502">R2</a></th>
      <th><a href="/championships/77/races?race_id=503">R3</a></th>
    </tr>
  </thead>
  <tbody>
    <tr>
      <td class="text-center result-position"><strong> 1 </strong></td>
      <td><a class="entrant-name fw-bold" href="/drivers/1">Jos&eacute; P&eacute;rez</a></td>
      <td><span class="show_positions">2<span class="text-secondary mx-1">·</span>1</span> <span class="show_points">25</span></td>
      <td><span class="show_positions">1<span class="text-secondary mx-1">·</span>1</span>
          <span class="show_points">25</span></td>
      <td><span class="show_positions">—</span></td>
    </tr>
    <tr>
      <td class="result-position"><strong>2</strong></td>
      <td><a class="entrant-name" href="/drivers/2">Anna-Lena O'Brien</a></td>
      <td><span class="show_positions">DNS<span class="text-secondary mx-1">·</span>DNS</span><span class="show_points">0</span></td>
      <td><span class="show_positions">3<span class="text-secondary mx-1">·</span>2</span><span class="show_points">18</span></td>
      <td><span class="show_positions">15<span class="text-secondary mx-1">·</span>DNS</span></td>
    </tr>
    <tr>
      <td class="result-position"><strong>P3</strong></td>
      <td>
        <a class="entrant-name" href="/drivers/3">Mark   Doe</a>
        <span class="upcase badge bg-red" title="Disqualified">DSQ</span>
      </td>
      <td><span class="show_positions">4<span class="text-secondary mx-1">·</span>3</span><span class="show_points">15</span></td>
      <td><span class="show_positions">DNS<span class="text-secondary mx-1">·</span>7</span><span class="show_points">6</span></td>
      <td><span class="show_positions"></span></td>
    </tr>
  </tbody>
  <tfoot>
    <tr><td colspan="5"><a href="?race_id=501">first</a> <a href="?race_id=504">next</a></td></tr>
  </tfoot>
</table>
</div>
</body>
</html>`
